// Package config provides centralized configuration management for the
// pipeline process. It loads settings from environment variables with
// sensible defaults and validates them on startup to fail fast on
// misconfiguration.
//
// Per-run settings (sources, column mappings, transform options) do not
// live here; they are read from the run file. This package only covers
// process-level concerns: where files live, how to log, and the optional
// database destination.
package config

import (
	"path/filepath"
	"time"
)

// Config holds all process-level configuration.
// All settings can be configured via environment variables.
type Config struct {
	Paths    PathsConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// PathsConfig holds filesystem locations for pipeline input and output.
type PathsConfig struct {
	// InputDir is the directory relative source filenames resolve against (default: data)
	InputDir string `env:"TABFUSE_INPUT_DIR" default:"data"`

	// OutputDir is where the consolidated output and error log are written (default: output)
	OutputDir string `env:"TABFUSE_OUTPUT_DIR" default:"output"`
}

// DatabaseConfig holds the optional PostgreSQL destination settings.
// The database destination is active only when both URL and Table are set.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and TABFUSE_DATABASE_URL env vars
	URL string `env:"DATABASE_URL" envAlt:"TABFUSE_DATABASE_URL"`

	// Table is the destination table for consolidated rows
	Table string `env:"TABFUSE_DB_TABLE"`

	// CreateTable controls whether the destination table is created if
	// missing. Disable when the ETL role has no DDL grant (default: true)
	CreateTable bool `env:"TABFUSE_DB_CREATE_TABLE" default:"true"`

	// BatchSize is the number of rows to insert per batch (default: 500)
	BatchSize int `env:"TABFUSE_DB_BATCH_SIZE" default:"500"`

	// ConnectTimeout is the maximum duration to wait for a connection (default: 10s)
	ConnectTimeout time.Duration `env:"TABFUSE_DB_CONNECT_TIMEOUT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"TABFUSE_LOG_LEVEL" envAlt:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"TABFUSE_LOG_FORMAT" envAlt:"LOG_FORMAT" default:"text"`
}

// Enabled reports whether the database destination should be used.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != "" && c.Table != ""
}

// Resolve returns the path for a source filename. Absolute paths are
// returned unchanged; relative paths are joined to InputDir.
func (c *PathsConfig) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.InputDir, name)
}

// OutputPath returns the path for a file under the output directory.
func (c *PathsConfig) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
