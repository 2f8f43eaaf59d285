package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/machouuid/internal/imagefile"
	"github.com/samcharles93/machouuid/internal/logger"
	"github.com/samcharles93/machouuid/internal/report"
	"github.com/samcharles93/machouuid/pkg/macho"
)

type locateOptions struct {
	failSafe    bool
	asJSON      bool
	members     bool
	fingerprint bool
}

func locateCmd() *cli.Command {
	var opts locateOptions

	return &cli.Command{
		Name:      "locate",
		Usage:     "Print the LC_UUID of each Mach-O file",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "fail-safe",
				Usage:       "print the all-zero UUID instead of failing when no identifier is found",
				Destination: &opts.failSafe,
			},
			&cli.BoolFlag{Name: "json", Usage: "emit results as JSON", Destination: &opts.asJSON},
			&cli.BoolFlag{Name: "members", Usage: "list every architecture of fat files", Destination: &opts.members},
			&cli.BoolFlag{Name: "fingerprint", Usage: "include the xxh3-128 digest of each file", Destination: &opts.fingerprint},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("locate: at least one FILE is required")
			}
			applyLocateConfig(cmd, appConfig, &opts.failSafe)
			return runLocate(ctx, os.Stdout, paths, opts)
		},
	}
}

// runLocate scans every path and writes one result per file. Files that
// cannot be read, fail to scan, or carry no identifier are collected into
// the returned error; fail-safe mode only forgives the last kind.
func runLocate(ctx context.Context, w io.Writer, paths []string, opts locateOptions) error {
	log := logger.FromContext(ctx)

	var errs *multierror.Error
	results := make([]report.Result, 0, len(paths))
	for _, path := range paths {
		res, err := locateFile(log.With("file", path), path, opts)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
		res.File = path
		results = append(results, res)
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			writeText(w, res, opts.members)
		}
	}

	return errs.ErrorOrNil()
}

func locateFile(log logger.Logger, path string, opts locateOptions) (report.Result, error) {
	im, err := imagefile.Open(path)
	if err != nil {
		return report.Result{Status: "error", Error: err.Error()}, err
	}
	defer func() { _ = im.Close() }()

	rep, err := macho.Locator{Log: log, FailSafe: opts.failSafe}.Inspect(im.Data)
	if err != nil {
		return report.Failed(len(im.Data), err), err
	}

	res := report.Build(rep, len(im.Data), opts.failSafe)
	if opts.fingerprint {
		res.Fingerprint = imagefile.Fingerprint(im.Data)
	}
	if rep.Status != macho.StatusSuccess && !opts.failSafe {
		return res, rep.Status.Err()
	}
	return res, nil
}

func writeText(w io.Writer, res report.Result, members bool) {
	id := res.UUID
	if id == "" {
		id = "<" + res.Status + ">"
	}
	line := id + "  " + res.File
	if res.Fingerprint != "" {
		line += "  xxh3:" + res.Fingerprint
	}
	_, _ = fmt.Fprintln(w, line)

	if !members {
		return
	}
	for _, m := range res.Members {
		mid := m.UUID
		if mid == "" {
			mid = "<" + m.Status + ">"
		}
		_, _ = fmt.Fprintf(w, "    %-12s %s  offset=%d size=%d\n", m.CPU, mid, m.Offset, m.Size)
	}
}
