package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`log_level: debug
log_format: json
fail_safe: true
server_address: 0.0.0.0:9000
read_timeout: 5s
max_upload_bytes: 1048576
rate_limit: 2.5
rate_burst: 4
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.FailSafe == nil || !*cfg.FailSafe {
		t.Fatalf("fail_safe not parsed")
	}
	if cfg.ReadTimeout == nil || *cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("read_timeout = %v", cfg.ReadTimeout)
	}
	if cfg.MaxUploadBytes == nil || *cfg.MaxUploadBytes != 1<<20 {
		t.Fatalf("max_upload_bytes = %v", cfg.MaxUploadBytes)
	}
	if cfg.RateLimit == nil || *cfg.RateLimit != 2.5 || cfg.RateBurst == nil || *cfg.RateBurst != 4 {
		t.Fatalf("rate settings not parsed: %+v", cfg)
	}
}

func TestLoadConfigMissingAndInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.FailSafe != nil || cfg.LogLevel != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	if _, err := LoadConfig(""); err != nil {
		t.Fatalf("empty path should not fail: %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("fail_safe: [nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatal("expected parse error")
	}
}
