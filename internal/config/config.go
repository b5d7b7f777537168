// Package config loads queue settings from a YAML file.
//
// Example:
//
//	db: ./jobs.db
//	table: jobs
//	busy_timeout: 2s
//	synchronous: FULL
//	log_level: debug
//
// Every field is optional. Unknown fields are rejected so typos surface.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pqueue/internal/store"
)

// Config holds settings for opening a queue.
type Config struct {
	// DB is the path to the SQLite file.
	DB string `yaml:"db"`

	// Table is the table holding records. Defaults to store.DefaultTable.
	Table string `yaml:"table,omitempty"`

	// BusyTimeout is how long SQLite waits on a locked file.
	BusyTimeout time.Duration `yaml:"busy_timeout,omitempty"`

	// Synchronous is the PRAGMA synchronous mode.
	Synchronous string `yaml:"synchronous,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Table:       store.DefaultTable,
		BusyTimeout: 5 * time.Second,
		Synchronous: "NORMAL",
		LogLevel:    "info",
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and overlays it on Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Synchronous = strings.ToUpper(cfg.Synchronous)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values. An empty DB is allowed here; callers that
// open a queue check it themselves.
func (c Config) Validate() error {
	if c.BusyTimeout < 0 {
		return fmt.Errorf("invalid busy_timeout %s: must not be negative", c.BusyTimeout)
	}
	switch c.Synchronous {
	case "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("invalid synchronous %q: must be one of OFF, NORMAL, FULL, EXTRA", c.Synchronous)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
}

// StoreOptions converts the config into store.Open options.
func (c Config) StoreOptions() []store.Option {
	opts := []store.Option{
		store.WithSynchronous(c.Synchronous),
		store.WithBusyTimeout(c.BusyTimeout),
	}
	if c.Table != "" {
		opts = append(opts, store.WithTable(c.Table))
	}
	return opts
}
