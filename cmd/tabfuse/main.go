package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tabfuse/internal/config"
	"github.com/JonMunkholm/tabfuse/internal/core"
	"github.com/JonMunkholm/tabfuse/internal/logging"
	"github.com/JonMunkholm/tabfuse/internal/runfile"
	"github.com/JonMunkholm/tabfuse/internal/sample"
	"github.com/JonMunkholm/tabfuse/internal/schema"
)

func main() {
	os.Exit(run())
}

func run() int {
	sampleFlag := flag.Bool("sample", false, "generate demo source files and a run file, then exit")
	layoutsFlag := flag.Bool("layouts", false, "list cataloged source layouts and exit")
	preview := flag.Int("preview", 0, "print the first n rows of the output after a successful run")
	flag.Usage = usage
	flag.Parse()

	// Catalog listing needs no configuration.
	if *layoutsFlag {
		listLayouts(os.Stdout)
		return 0
	}

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return 2
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *sampleFlag {
		return generateSample(cfg, logger)
	}

	if flag.NArg() != 1 {
		usage()
		return 2
	}

	rf, err := runfile.Load(flag.Arg(0))
	if err != nil {
		logger.Error("failed to load run file", "path", flag.Arg(0), "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return 2
	}

	ledger := core.NewLedger(logger)
	ctx := logging.WithRunID(context.Background(), ledger.RunID())

	p := core.NewPipeline(cfg.Paths.InputDir, cfg.Paths.OutputDir, ledger, logging.FromContext(ctx))
	for _, src := range rf.Sources {
		p.RegisterSource(src.Name, src.File, src.Mapping)
	}

	if cfg.Database.Enabled() {
		pool, err := connect(ctx, cfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
			return 2
		}
		defer pool.Close()

		p.WithDatabase(&core.DBLoader{
			DB:          pool,
			Table:       cfg.Database.Table,
			CreateTable: cfg.Database.CreateTable,
			BatchSize:   cfg.Database.BatchSize,
		})
	}

	result, err := p.Run(ctx, rf.Output, rf.Options)

	core.WriteSummary(os.Stdout, result, ledger.Report())
	if err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return 1
	}
	if result.Status != core.StatusCompleted {
		return 1
	}

	if *preview > 0 {
		fmt.Println()
		core.WritePreview(os.Stdout, p.Transformed(), *preview)
	}
	return 0
}

func generateSample(cfg *config.Config, logger *slog.Logger) int {
	if err := sample.Generate(cfg.Paths.InputDir); err != nil {
		logger.Error("failed to generate sample data", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return 2
	}

	runPath := filepath.Join(cfg.Paths.InputDir, sample.RunFileName)
	if err := sample.WriteRunFile(runPath); err != nil {
		logger.Error("failed to write demo run file", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return 2
	}

	logger.Info("sample data generated", "dir", cfg.Paths.InputDir)
	fmt.Printf("Demo sources written to %s\n", cfg.Paths.InputDir)
	fmt.Printf("Run: tabfuse %s\n", runPath)
	return 0
}

// listLayouts prints the layouts a run file can reference by name
// instead of an inline mapping.
func listLayouts(w io.Writer) {
	for _, l := range schema.All() {
		fmt.Fprintf(w, "%-14s %s (default file: %s, %d columns)\n",
			l.Key, l.Label, l.Filename, len(l.Mapping))
	}
}

// connect opens and verifies a pool for the optional database
// destination, honoring the configured connect timeout.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `tabfuse consolidates heterogeneous tabular sources into one table.

Usage:
  tabfuse [flags] <run-file>

Flags:
`)
	flag.PrintDefaults()
}
