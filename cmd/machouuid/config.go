package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the machouuid configuration file
// (~/.config/machouuid/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	FailSafe  *bool  `yaml:"fail_safe"`

	// Server
	ServerAddress  string         `yaml:"server_address"`
	ReadTimeout    *time.Duration `yaml:"read_timeout"`
	MaxUploadBytes *int64         `yaml:"max_upload_bytes"`
	RateLimit      *float64       `yaml:"rate_limit"`
	RateBurst      *int64         `yaml:"rate_burst"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "machouuid", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config;
// a file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyLogConfig applies config file defaults to the logging flags when the
// corresponding CLI flag was not explicitly set.
func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyLocateConfig(c *cli.Command, cfg Config, failSafe *bool) {
	if cfg.FailSafe != nil && !c.IsSet("fail-safe") {
		*failSafe = *cfg.FailSafe
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, opts *serveOptions) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		opts.addr = cfg.ServerAddress
	}
	if cfg.ReadTimeout != nil && !c.IsSet("read-timeout") {
		opts.readTimeout = *cfg.ReadTimeout
	}
	if cfg.FailSafe != nil && !c.IsSet("fail-safe") {
		opts.failSafe = *cfg.FailSafe
	}
	if cfg.MaxUploadBytes != nil && !c.IsSet("max-upload") {
		opts.maxUpload = *cfg.MaxUploadBytes
	}
	if cfg.RateLimit != nil && !c.IsSet("rate-limit") {
		opts.rateLimit = *cfg.RateLimit
	}
	if cfg.RateBurst != nil && !c.IsSet("rate-burst") {
		opts.rateBurst = *cfg.RateBurst
	}
}
