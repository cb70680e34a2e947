package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from the environment, applies tag defaults,
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := fromEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load for main(), panicking on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// fromEnv fills v's fields from the environment, recursing through
// nested structs. Field behavior comes from the env, envAlt, default,
// and required struct tags.
func fromEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Time{}) {
			if err := fromEnv(fv); err != nil {
				return err
			}
			continue
		}

		key := f.Tag.Get("env")
		if key == "" {
			continue
		}
		raw, err := resolve(f, key)
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, raw, err)
		}
	}
	return nil
}

// resolve returns a field's raw value: the primary variable, then the
// envAlt alias, then the default tag. A required field with no value
// fails.
func resolve(f reflect.StructField, key string) (string, error) {
	raw := os.Getenv(key)
	if raw == "" {
		if alt := f.Tag.Get("envAlt"); alt != "" {
			raw = os.Getenv(alt)
		}
	}
	if raw == "" {
		if f.Tag.Get("required") == "true" {
			return "", fmt.Errorf("required environment variable %s is not set", key)
		}
		raw = f.Tag.Get("default")
	}
	return raw, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// assign parses raw into the field according to its type. Durations
// take time.ParseDuration syntax, not a bare integer.
func assign(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
		return nil
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
		return nil
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Path validation
	if c.Paths.InputDir == "" {
		errs = append(errs, "TABFUSE_INPUT_DIR must not be empty")
	}
	if c.Paths.OutputDir == "" {
		errs = append(errs, "TABFUSE_OUTPUT_DIR must not be empty")
	}

	// Database validation
	if c.Database.Table != "" && c.Database.URL == "" {
		errs = append(errs, "TABFUSE_DB_TABLE is set but DATABASE_URL is not; set a connection string or unset the table")
	}
	if c.Database.BatchSize <= 0 {
		errs = append(errs, "TABFUSE_DB_BATCH_SIZE must be positive")
	}
	if c.Database.ConnectTimeout <= 0 {
		errs = append(errs, "TABFUSE_DB_CONNECT_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("TABFUSE_LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("TABFUSE_LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Paths: {InputDir: %q, OutputDir: %q}, ", c.Paths.InputDir, c.Paths.OutputDir))
	dbURL := "(unset)"
	if c.Database.URL != "" {
		dbURL = "[MASKED]"
	}
	b.WriteString(fmt.Sprintf("Database: {URL: %s, Table: %q, BatchSize: %d}, ",
		dbURL, c.Database.Table, c.Database.BatchSize))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
