// Package config loads the lazychart configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config holds all application configuration. Durations are kept as strings
// in the YAML shape ("10s", "1h") and parsed by Load into the typed fields
// at the bottom.
type Config struct {
	API struct {
		URL     string `yaml:"url"     default:"http://localhost:8087" validate:"required,url"`
		Timeout string `yaml:"timeout" default:"10s"                   validate:"required"`
	} `yaml:"api"`
	Chart struct {
		Instrument  string `yaml:"instrument"  default:"EUR_USD" validate:"required"`
		Granularity string `yaml:"granularity" default:"1h"      validate:"required"`
		PageSize    int    `yaml:"page_size"   default:"300"     validate:"gte=10,lte=2000"`
		Refresh     string `yaml:"refresh"     default:"5s"      validate:"required"`
	} `yaml:"chart"`
	Cache struct {
		// URL of the Redis instance backing the history page cache.
		// Empty disables caching.
		URL string `yaml:"url"`
		TTL string `yaml:"ttl" default:"1h" validate:"required"`
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
		// File receives diagnostics output. Empty disables logging, since
		// the TUI owns the terminal.
		File string `yaml:"file"`
	} `yaml:"log"`

	// Parsed by Load from the string fields above.
	APITimeout   time.Duration `yaml:"-"`
	ChartRefresh time.Duration `yaml:"-"`
	CacheTTL     time.Duration `yaml:"-"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lazychart", "config.yaml")
}

// Load reads the configuration at path. An empty path falls back to
// DefaultPath, where a missing file is fine and yields the built-in
// defaults; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// No config file, defaults apply.
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	var err error
	if cfg.APITimeout, err = parseDuration("api.timeout", cfg.API.Timeout); err != nil {
		return nil, err
	}
	if cfg.ChartRefresh, err = parseDuration("chart.refresh", cfg.Chart.Refresh); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("cache.ttl", cfg.Cache.TTL); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config %s: must be positive, got %s", key, value)
	}
	return d, nil
}
