// Package logging provides structured logging configuration using log/slog.
//
// This package propagates pipeline run IDs through structured log entries,
// enabling correlation of every log entry emitted during a single run.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type ctxKey int

const runIDKey ctxKey = iota

// Setup configures the global slog logger based on level and format and
// returns it so callers can inject it into pipeline components.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format in production for machine parsing (ELK, CloudWatch, etc.)
// Use "text" format in development for human readability.
func Setup(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRunID returns a context carrying the pipeline run ID.
//
// The CLI stores the ID once at startup; FromContext then stamps run_id
// on every log entry produced during that run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID returns the run ID stored in the context, or "" if none is set.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FromContext returns a logger enriched with run context.
//
// When called with a context that contains a run ID, the returned logger
// automatically includes run_id in all log entries. This enables
// correlation of all log entries for a single pipeline run.
//
// Usage:
//
//	func describeRun(ctx context.Context) {
//	    logger := logging.FromContext(ctx)
//	    logger.Info("run file loaded", "sources", len(sources))
//	}
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id := RunID(ctx); id != "" {
		logger = logger.With("run_id", id)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// This is useful for creating operation-specific loggers that carry
// consistent context through a multi-step process.
//
// Usage:
//
//	srcLogger := logging.WithFields(ctx,
//	    "source", spec.Name,
//	    "file", spec.Filename,
//	)
//	srcLogger.Info("extraction started")
//	// ... later ...
//	srcLogger.Info("extraction finished", "rows", table.NumRows())
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
