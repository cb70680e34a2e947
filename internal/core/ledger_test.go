package core

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testLogger returns a logger that swallows output so test runs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ----------------------------------------------------------------------------
// Stage Helper Tests
// ----------------------------------------------------------------------------

func TestStageHelpers(t *testing.T) {
	if got := ExtractionStage("hr_feed"); got != "extraction_hr_feed" {
		t.Errorf("ExtractionStage = %q, want extraction_hr_feed", got)
	}
	if got := MappingStage("hr_feed"); got != "mapping_hr_feed" {
		t.Errorf("MappingStage = %q, want mapping_hr_feed", got)
	}
}

// ----------------------------------------------------------------------------
// Ledger Tests
// ----------------------------------------------------------------------------

func TestLedgerCounts(t *testing.T) {
	l := NewLedger(testLogger())

	l.Error(StageValidation, "File not found: a.csv", "details", nil)
	l.Error(StageLoad, "Failed to save data", "", errors.New("disk full"))
	l.Warning(StageTransform, "Requested columns not in data: [x]")
	l.Correction(StageMissingValues, "Filled 3 missing values in status with 'Unknown'", 3)
	l.Correction(StageConsolidation, "Removed duplicate rows", 2)
	l.Correction(StageDataTypeFix, "Rectified data types for 2 columns", 10)

	if got := l.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount = %d, want 2", got)
	}
	if got := l.WarningCount(); got != 1 {
		t.Errorf("WarningCount = %d, want 1", got)
	}
	if got := l.CorrectionCount(); got != 3 {
		t.Errorf("CorrectionCount = %d, want 3", got)
	}
}

func TestLedgerRunID(t *testing.T) {
	a := NewLedger(testLogger())
	b := NewLedger(testLogger())

	if a.RunID() == "" {
		t.Fatal("RunID is empty")
	}
	if a.RunID() == b.RunID() {
		t.Error("two ledgers share a run ID")
	}
}

func TestLedgerReportSnapshot(t *testing.T) {
	l := NewLedger(testLogger())

	// A fresh ledger still carries arrays, not nil slices.
	empty := l.Report()
	if empty.Errors == nil || empty.Warnings == nil || empty.Corrections == nil {
		t.Fatal("fresh report has nil slices")
	}

	l.Error(StagePipeline, "Extract and map phase failed", "", nil)
	first := l.Report()

	// Later records do not bleed into an earlier snapshot.
	l.Error(StagePipeline, "Consolidation phase failed", "", nil)
	if first.TotalErrors != 1 || len(first.Errors) != 1 {
		t.Errorf("snapshot changed after later record: %+v", first)
	}

	// Mutating a snapshot does not touch the ledger.
	first.Errors[0].Error = "clobbered"
	if got := l.Report().Errors[0].Error; got != "Extract and map phase failed" {
		t.Errorf("ledger entry = %q after snapshot mutation", got)
	}
}

func TestLedgerErrorTraceback(t *testing.T) {
	l := NewLedger(testLogger())

	l.Error(StageLoad, "Failed to save data", "write failed", errors.New("permission denied"))
	l.Error(StageTransform, "Error during aggregation", "", nil)

	r := l.Report()
	if got := r.Errors[0].Traceback; got != "permission denied" {
		t.Errorf("traceback = %q, want permission denied", got)
	}
	if got := r.Errors[1].Traceback; got != "" {
		t.Errorf("traceback without cause = %q, want empty", got)
	}
	if got := r.Errors[0].Details; got != "write failed" {
		t.Errorf("details = %q, want write failed", got)
	}
}

func TestLedgerPersist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	l := NewLedger(testLogger())

	l.Error(StageValidation, "File not found: missing.csv", "This file is required for processing", nil)
	l.Warning("hr_feed", "Issues: 2 empty rows")
	l.Correction(StageMissingValues, "Filled 1 missing values in gender with 'Unknown'", 1)

	if err := l.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "error_log.json"))
	if err != nil {
		t.Fatalf("read error_log.json: %v", err)
	}

	// The document uses snake_case keys throughout.
	for _, key := range []string{
		`"total_errors"`, `"total_warnings"`, `"total_corrections"`,
		`"errors"`, `"warnings"`, `"corrections"`,
		`"affected_rows"`, `"traceback"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("error_log.json missing key %s", key)
		}
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("unmarshal error_log.json: %v", err)
	}
	if report.TotalErrors != 1 || report.TotalWarnings != 1 || report.TotalCorrections != 1 {
		t.Errorf("totals = %d/%d/%d, want 1/1/1",
			report.TotalErrors, report.TotalWarnings, report.TotalCorrections)
	}
	if report.Errors[0].Stage != StageValidation {
		t.Errorf("error stage = %q, want %q", report.Errors[0].Stage, StageValidation)
	}
	if report.Corrections[0].AffectedRows != 1 {
		t.Errorf("affected_rows = %d, want 1", report.Corrections[0].AffectedRows)
	}
}

func TestLedgerPersistEmpty(t *testing.T) {
	dir := t.TempDir()
	l := NewLedger(testLogger())

	if err := l.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "error_log.json"))
	if err != nil {
		t.Fatalf("read error_log.json: %v", err)
	}

	// Empty collections serialize as [] rather than null.
	if strings.Contains(string(data), "null") {
		t.Errorf("empty report contains null: %s", data)
	}
}
