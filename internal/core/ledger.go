package core

// ledger.go implements the append-only record of everything that went
// wrong, or was silently repaired, during a run.
//
// The ledger is the pipeline's audit trail. Every component records
// errors, warnings, and corrections here instead of aborting; the
// orchestrator persists the full report to error_log.json on every exit
// path, success or failure, so the trail survives even an aborted run.

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Well-known ledger stages. Per-source stages are derived with the
// *Stage helpers below.
const (
	StageValidation    = "validation"
	StageConsolidation = "consolidation"
	StageTransform     = "transform"
	StageLoad          = "load"
	StagePipeline      = "pipeline"
	StageDataTypeFix   = "data_type_fix"
	StageMissingValues = "missing_values"
)

// ExtractionStage returns the ledger stage for one source's extraction.
func ExtractionStage(source string) string {
	return "extraction_" + source
}

// MappingStage returns the ledger stage for one source's column mapping.
func MappingStage(source string) string {
	return "mapping_" + source
}

// ErrorEntry is one recorded failure.
type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Error     string    `json:"error"`
	Details   string    `json:"details"`
	Traceback string    `json:"traceback"`
}

// WarningEntry is one recorded non-fatal irregularity.
type WarningEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Warning   string    `json:"warning"`
}

// CorrectionEntry is one recorded automatic data repair.
type CorrectionEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Stage        string    `json:"stage"`
	Action       string    `json:"action"`
	AffectedRows int       `json:"affected_rows"`
}

// Report is the aggregate document persisted to error_log.json.
type Report struct {
	TotalErrors      int               `json:"total_errors"`
	TotalWarnings    int               `json:"total_warnings"`
	TotalCorrections int               `json:"total_corrections"`
	Errors           []ErrorEntry      `json:"errors"`
	Warnings         []WarningEntry    `json:"warnings"`
	Corrections      []CorrectionEntry `json:"corrections"`
}

// Ledger accumulates errors, warnings, and corrections for one run.
// Safe for concurrent use, though the pipeline itself is sequential.
type Ledger struct {
	mu     sync.Mutex
	runID  string
	logger *slog.Logger
	now    func() time.Time

	errors      []ErrorEntry
	warnings    []WarningEntry
	corrections []CorrectionEntry
}

// NewLedger creates a ledger with a fresh run ID.
// A nil logger falls back to slog.Default.
func NewLedger(logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		runID:  uuid.NewString(),
		logger: logger,
		now:    time.Now,
	}
}

// RunID returns the unique identifier assigned to this run.
func (l *Ledger) RunID() string {
	return l.runID
}

// Error records a failure at the given stage. The optional cause is
// preserved in the entry's traceback field for diagnosis.
func (l *Ledger) Error(stage, msg, details string, cause error) {
	entry := ErrorEntry{
		Timestamp: l.now(),
		Stage:     stage,
		Error:     msg,
		Details:   details,
	}
	if cause != nil {
		entry.Traceback = cause.Error()
	}

	l.mu.Lock()
	l.errors = append(l.errors, entry)
	l.mu.Unlock()

	args := []any{"stage", stage, "run_id", l.runID}
	if details != "" {
		args = append(args, "details", details)
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}
	l.logger.Error(msg, args...)
}

// Warning records a non-fatal irregularity at the given stage.
func (l *Ledger) Warning(stage, msg string) {
	entry := WarningEntry{
		Timestamp: l.now(),
		Stage:     stage,
		Warning:   msg,
	}

	l.mu.Lock()
	l.warnings = append(l.warnings, entry)
	l.mu.Unlock()

	l.logger.Warn(msg, "stage", stage, "run_id", l.runID)
}

// Correction records an automatic repair and how many rows it touched.
func (l *Ledger) Correction(stage, action string, affectedRows int) {
	entry := CorrectionEntry{
		Timestamp:    l.now(),
		Stage:        stage,
		Action:       action,
		AffectedRows: affectedRows,
	}

	l.mu.Lock()
	l.corrections = append(l.corrections, entry)
	l.mu.Unlock()

	l.logger.Info("correction applied",
		"stage", stage,
		"action", action,
		"affected_rows", affectedRows,
		"run_id", l.runID,
	)
}

// ErrorCount returns the number of recorded errors.
func (l *Ledger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

// WarningCount returns the number of recorded warnings.
func (l *Ledger) WarningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

// CorrectionCount returns the number of recorded corrections.
func (l *Ledger) CorrectionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.corrections)
}

// Report returns a snapshot of everything recorded so far.
// Slices are never nil so the JSON document always carries arrays.
func (l *Ledger) Report() Report {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := Report{
		TotalErrors:      len(l.errors),
		TotalWarnings:    len(l.warnings),
		TotalCorrections: len(l.corrections),
		Errors:           make([]ErrorEntry, len(l.errors)),
		Warnings:         make([]WarningEntry, len(l.warnings)),
		Corrections:      make([]CorrectionEntry, len(l.corrections)),
	}
	copy(r.Errors, l.errors)
	copy(r.Warnings, l.warnings)
	copy(r.Corrections, l.corrections)
	return r
}

// Persist writes the report as indented JSON to <dir>/error_log.json,
// creating the directory if needed.
func (l *Ledger) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(l.Report(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal error report: %w", err)
	}

	path := filepath.Join(dir, "error_log.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write error report: %w", err)
	}

	l.logger.Info("error log saved", "path", path, "run_id", l.runID)
	return nil
}
