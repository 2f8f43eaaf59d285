package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/machouuid/internal/logger"
	"github.com/samcharles93/machouuid/internal/machotest"
	"github.com/samcharles93/machouuid/internal/report"
	"github.com/samcharles93/machouuid/pkg/macho"
)

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func quietContext() context.Context {
	return logger.WithContext(context.Background(), logger.Discard())
}

func TestRunLocateText(t *testing.T) {
	t.Parallel()

	good := writeImage(t, "good", machotest.Thin{
		Is64: true,
		Cmds: []machotest.LoadCmd{machotest.UUID(machotest.Seq(0x01))},
	}.Bytes())

	var out bytes.Buffer
	if err := runLocate(quietContext(), &out, []string{good}, locateOptions{}); err != nil {
		t.Fatalf("runLocate: %v", err)
	}
	want := "01020304-0506-0708-090a-0b0c0d0e0f10  " + good + "\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestRunLocateAggregatesFailures(t *testing.T) {
	t.Parallel()

	good := writeImage(t, "good", machotest.Thin{
		Cmds: []machotest.LoadCmd{machotest.UUID(machotest.Seq(0x10))},
	}.Bytes())
	noUUID := writeImage(t, "nouuid", machotest.Thin{Is64: true}.Bytes())
	missing := filepath.Join(t.TempDir(), "missing")

	var out bytes.Buffer
	err := runLocate(quietContext(), &out, []string{good, noUUID, missing}, locateOptions{})
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !errors.Is(err, macho.ErrNoUUID) {
		t.Fatalf("expected ErrNoUUID in %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error in %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "<not_found>") || !strings.HasPrefix(lines[2], "<error>") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	err = runLocate(quietContext(), &out, []string{good, noUUID}, locateOptions{failSafe: true})
	if err != nil {
		t.Fatalf("fail-safe run should succeed: %v", err)
	}
	if !strings.Contains(out.String(), macho.SentinelText+"  "+noUUID) {
		t.Fatalf("expected sentinel for %s, got:\n%s", noUUID, out.String())
	}
}

func TestRunLocateMalformedFailsEvenWhenFailSafe(t *testing.T) {
	t.Parallel()

	bad := writeImage(t, "bad", machotest.Thin{
		Is64:  true,
		Cmds:  []machotest.LoadCmd{machotest.Filler(machotest.LCSegment64, 8)},
		NCmds: machotest.U32(64),
	}.Bytes())

	var out bytes.Buffer
	err := runLocate(quietContext(), &out, []string{bad}, locateOptions{failSafe: true})
	if !errors.Is(err, macho.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "<malformed>") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunLocateJSONMembers(t *testing.T) {
	t.Parallel()

	fat := writeImage(t, "fat", machotest.Fat(
		machotest.Member{CPU: machotest.CPUTypeX86_64, Image: machotest.Thin{Is64: true}.Bytes()},
		machotest.Member{CPU: machotest.CPUTypeARM64, Image: machotest.Thin{
			Is64:  true,
			Order: machotest.SwappedOrder(),
			Cmds:  []machotest.LoadCmd{machotest.UUID(machotest.Seq(0x70))},
		}.Bytes()},
	))

	var out bytes.Buffer
	err := runLocate(quietContext(), &out, []string{fat}, locateOptions{asJSON: true, fingerprint: true})
	if err != nil {
		t.Fatalf("runLocate: %v", err)
	}

	var results []report.Result
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out.String())
	}
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	res := results[0]
	if res.File != fat || res.Kind != "fat-32" || len(res.Members) != 2 || res.Fingerprint == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Members[1].Order != "swapped" || res.Members[1].UUID != res.UUID {
		t.Fatalf("unexpected member: %+v", res.Members[1])
	}
}

func TestWriteTextMembers(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	writeText(&out, report.Result{
		File:   "a.out",
		Status: "success",
		UUID:   "u",
		Members: []report.Member{
			{CPU: "CpuAmd64", Status: "not_found", Offset: 16, Size: 32},
			{CPU: "CpuArm64", Status: "success", UUID: "u", Offset: 48, Size: 56},
		},
	}, true)

	got := out.String()
	if !strings.Contains(got, "CpuAmd64     <not_found>  offset=16 size=32") {
		t.Fatalf("missing first member line:\n%s", got)
	}
	if !strings.Contains(got, "CpuArm64     u  offset=48 size=56") {
		t.Fatalf("missing second member line:\n%s", got)
	}
}
