package core

// pipeline.go drives the four-phase run: extract and map every source,
// consolidate the survivors, transform, and load. Phases communicate
// through status values rather than errors; the ledger records what
// happened and is persisted on every exit path.

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
)

// Pipeline orchestrates a multi-source consolidation run. Construct
// with NewPipeline, register sources, then call Run once. Instances are
// single-use and not safe for concurrent access.
type Pipeline struct {
	inputDir  string
	outputDir string
	ledger    *Ledger
	logger    *slog.Logger

	sources []*SourceSpec     // registration order
	data    map[string]*Table // mapped tables for surviving sources

	consolidated *Table
	transformed  *Table
	outputPath   string
	status       Status

	dbLoader *DBLoader // optional secondary destination
}

// NewPipeline returns a pipeline rooted at the given input and output
// directories. A nil ledger or logger falls back to fresh defaults.
func NewPipeline(inputDir, outputDir string, ledger *Ledger, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = NewLedger(logger)
	}
	return &Pipeline{
		inputDir:  inputDir,
		outputDir: outputDir,
		ledger:    ledger,
		logger:    logger,
		data:      make(map[string]*Table),
		status:    StatusInitialized,
	}
}

// WithDatabase attaches an optional PostgreSQL destination that
// receives the transformed rows after the file output is written.
func (p *Pipeline) WithDatabase(dl *DBLoader) *Pipeline {
	p.dbLoader = dl
	return p
}

// RegisterSource adds a source to the run. Relative filenames resolve
// against the pipeline's input directory; absolute paths pass through.
func (p *Pipeline) RegisterSource(name, filename string, mapping Mapping) {
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.inputDir, filename)
	}
	p.sources = append(p.sources, &SourceSpec{
		Name:    name,
		Path:    path,
		Mapping: mapping,
		Status:  SourceRegistered,
	})
	p.logger.Info("source registered", "source", name, "file", filename)
}

// Status returns the pipeline's current state.
func (p *Pipeline) Status() Status { return p.status }

// Ledger returns the run's ledger.
func (p *Pipeline) Ledger() *Ledger { return p.ledger }

// Sources returns a snapshot of the registered sources with their
// current statuses.
func (p *Pipeline) Sources() []SourceSpec {
	out := make([]SourceSpec, len(p.sources))
	for i, src := range p.sources {
		out[i] = *src
	}
	return out
}

// Consolidated returns the merged table, or nil before consolidation.
func (p *Pipeline) Consolidated() *Table { return p.consolidated }

// Transformed returns the final table, or nil before transformation.
func (p *Pipeline) Transformed() *Table { return p.transformed }

// Run executes the full pipeline and always leaves the status on a
// terminal value. The returned error is non-nil only when the output
// itself could not be persisted (the file, the database destination, or
// the ledger); every other failure is reported through the status and
// the ledger so a scheduled run never aborts half-written.
func (p *Pipeline) Run(ctx context.Context, outputFilename string, opts Options) (result Result, err error) {
	p.logger.Info("pipeline started",
		"run_id", p.ledger.RunID(),
		"sources", len(p.sources),
	)

	defer func() {
		if r := recover(); r != nil {
			p.ledger.Error(StagePipeline, "Unexpected pipeline error",
				fmt.Sprint(r), fmt.Errorf("%s", debug.Stack()))
			p.status = StatusFailedUnexpected
		}
		result = p.result()
		if perr := p.ledger.Persist(p.outputDir); perr != nil && err == nil {
			err = perr
		}
		p.logSummary()
	}()

	p.status = StatusExtracting
	if !p.extractAndMapAll() {
		p.ledger.Error(StagePipeline, "Extract and map phase failed",
			"No sources processed successfully", nil)
		p.status = StatusFailedExtract
		return
	}

	p.status = StatusConsolidating
	if !p.consolidate() {
		p.ledger.Error(StagePipeline, "Consolidation phase failed",
			"Could not merge sources", nil)
		p.status = StatusFailedConsolidate
		return
	}

	p.status = StatusTransforming
	if !p.transform(opts) {
		p.ledger.Error(StagePipeline, "Transformation phase failed",
			"Could not transform data", nil)
		p.status = StatusFailedTransform
		return
	}

	p.status = StatusLoading
	if lerr := p.load(ctx, outputFilename); lerr != nil {
		p.ledger.Error(StagePipeline, "Load phase failed",
			"Could not save output", nil)
		p.status = StatusFailedLoad
		err = lerr
		return
	}

	p.status = StatusCompleted
	return
}

// extractAndMapAll runs every registered source through extraction,
// validation, mapping, and per-source rectification. Sources fail
// individually; the phase succeeds if at least one survives.
func (p *Pipeline) extractAndMapAll() bool {
	successful := 0
	var failed []string

	for _, src := range p.sources {
		p.logger.Info("processing source", "source", src.Name)

		t, ok := p.extractSource(src)
		if !ok {
			failed = append(failed, src.Name)
			continue
		}

		mapped, ok := MapColumns(p.ledger, t, *src)
		if !ok {
			src.Status = SourceFailed
			src.Failure = FailureMapping
			failed = append(failed, src.Name)
			continue
		}
		src.Status = SourceMapped

		// Per-source rectification: complete the canonical shape, then
		// settle types before the first dedupe pass.
		EnsureColumns(p.ledger, mapped, p.requiredColumns(src), src.Name)
		CoerceTypes(p.ledger, mapped)
		mapped = DropDuplicates(p.ledger, mapped, src.Name)

		p.data[src.Name] = mapped
		src.Status = SourceProcessed
		successful++
		p.logger.Info("source processed",
			"source", src.Name,
			"rows", mapped.NumRows(),
			"columns", mapped.NumCols(),
		)
	}

	p.logger.Info("extract and map phase finished",
		"succeeded", successful,
		"failed", len(failed),
	)
	if len(failed) > 0 {
		p.logger.Warn("sources failed", "sources", failed)
	}
	return successful > 0
}

// requiredColumns lists the canonical columns a mapped source table
// must carry: every mapping target plus the provenance column.
func (p *Pipeline) requiredColumns(src *SourceSpec) []string {
	return append(src.Mapping.Targets(), ProvenanceColumn)
}

func (p *Pipeline) consolidate() bool {
	var tables []*Table
	for _, src := range p.sources {
		if t, ok := p.data[src.Name]; ok {
			tables = append(tables, t)
		}
	}

	merged, ok := Consolidate(p.ledger, tables)
	if !ok {
		return false
	}

	p.consolidated = merged
	p.logger.Info("consolidation complete",
		"sources", len(tables),
		"rows", merged.NumRows(),
		"columns", merged.NumCols(),
	)
	return true
}

func (p *Pipeline) transform(opts Options) bool {
	if p.consolidated == nil {
		p.ledger.Error(StageTransform, "No consolidated data to transform",
			"Run consolidate() first", nil)
		return false
	}

	p.transformed = Transform(p.ledger, p.consolidated, opts)
	p.logger.Info("transformation complete",
		"rows", p.transformed.NumRows(),
		"columns", p.transformed.NumCols(),
	)
	return true
}

// load writes the output file and, when configured, mirrors the rows
// into the database destination. Failures here are the one class of
// error Run propagates to the caller.
func (p *Pipeline) load(ctx context.Context, filename string) error {
	if p.transformed == nil {
		p.ledger.Error(StageLoad, "No transformed data to load",
			"Run transform() first", nil)
		return fmt.Errorf("no transformed data to load")
	}

	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.outputDir, filename)
	}
	if err := WriteTable(p.transformed, path); err != nil {
		p.ledger.Error(StageLoad, "Failed to save data", path, err)
		return err
	}
	p.outputPath = path
	p.logger.Info("data saved",
		"path", path,
		"rows", p.transformed.NumRows(),
		"columns", p.transformed.NumCols(),
	)

	if p.dbLoader != nil {
		if err := p.dbLoader.Load(ctx, p.transformed); err != nil {
			p.ledger.Error(StageLoad, "Failed to load rows into database",
				p.dbLoader.Table, err)
			return err
		}
		p.logger.Info("database load complete",
			"table", p.dbLoader.Table,
			"rows", p.transformed.NumRows(),
		)
	}

	return nil
}

func (p *Pipeline) result() Result {
	res := Result{
		Status:       p.status,
		SourcesTotal: len(p.sources),
	}
	for _, src := range p.sources {
		if src.Status == SourceProcessed {
			res.SourcesOK++
		}
	}
	if p.status == StatusCompleted && p.transformed != nil {
		res.OutputPath = p.outputPath
		res.Rows = p.transformed.NumRows()
		res.Columns = p.transformed.NumCols()
	}
	return res
}

func (p *Pipeline) logSummary() {
	report := p.ledger.Report()
	p.logger.Info("run summary",
		"status", string(p.status),
		"errors", report.TotalErrors,
		"warnings", report.TotalWarnings,
		"corrections", report.TotalCorrections,
	)
}
