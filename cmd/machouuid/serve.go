package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/machouuid/internal/api"
	"github.com/samcharles93/machouuid/internal/logger"
	"github.com/samcharles93/machouuid/internal/version"
)

type serveOptions struct {
	addr        string
	readTimeout time.Duration
	failSafe    bool
	maxUpload   int64
	rateLimit   float64
	rateBurst   int64
}

func serveCmd() *cli.Command {
	var opts serveOptions

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve UUID lookups over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &opts.addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &opts.readTimeout,
			},
			&cli.BoolFlag{
				Name:        "fail-safe",
				Usage:       "default fail_safe for requests that do not set it",
				Destination: &opts.failSafe,
			},
			&cli.Int64Flag{
				Name:        "max-upload",
				Usage:       "maximum request body size in bytes",
				Value:       256 << 20,
				Destination: &opts.maxUpload,
			},
			&cli.FloatFlag{
				Name:        "rate-limit",
				Usage:       "sustained lookups per second (0 disables limiting)",
				Destination: &opts.rateLimit,
			},
			&cli.Int64Flag{
				Name:        "rate-burst",
				Usage:       "lookup burst size",
				Destination: &opts.rateBurst,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, appConfig, &opts)
			log := logger.FromContext(ctx)

			server := api.NewServer(api.Config{
				FailSafe:       opts.failSafe,
				MaxUploadBytes: opts.maxUpload,
				RateLimit:      opts.rateLimit,
				RateBurst:      int(opts.rateBurst),
				Log:            log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", opts.addr, "version", version.String())
			sc := echo.StartConfig{
				Address: opts.addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = opts.readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
