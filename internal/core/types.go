package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Status represents the pipeline run state.
// Progress states are set on phase entry; the rest are terminal.
type Status string

const (
	StatusInitialized   Status = "initialized"
	StatusExtracting    Status = "extracting"
	StatusConsolidating Status = "consolidating"
	StatusTransforming  Status = "transforming"
	StatusLoading       Status = "loading"

	StatusCompleted         Status = "completed_successfully"
	StatusFailedExtract     Status = "failed_extract"
	StatusFailedConsolidate Status = "failed_consolidate"
	StatusFailedTransform   Status = "failed_transform"
	StatusFailedLoad        Status = "failed_load"
	StatusFailedUnexpected  Status = "failed_unexpected"
)

// Failed reports whether the status is a terminal failure.
func (s Status) Failed() bool {
	switch s {
	case StatusFailedExtract, StatusFailedConsolidate, StatusFailedTransform,
		StatusFailedLoad, StatusFailedUnexpected:
		return true
	}
	return false
}

// Terminal reports whether the run has finished, successfully or not.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s.Failed()
}

// SourceStatus tracks how far a single source made it through the run.
type SourceStatus string

const (
	SourceRegistered SourceStatus = "registered"
	SourceExtracted  SourceStatus = "extracted"
	SourceMapped     SourceStatus = "mapped"
	SourceProcessed  SourceStatus = "processed"
	SourceFailed     SourceStatus = "failed"
)

// FailureKind classifies why a source dropped out of the run.
// Empty for sources that have not failed.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureNotFound    FailureKind = "not_found"
	FailureUnsupported FailureKind = "unsupported_format"
	FailureParse       FailureKind = "parse_error"
	FailureValidation  FailureKind = "validation_failed"
	FailureMapping     FailureKind = "mapping_failed"
)

// ColumnRename maps one raw source column header to its canonical name.
type ColumnRename struct {
	From string // Header as it appears in the source file
	To   string // Canonical column name in the consolidated output
}

// Mapping is an ordered list of column renames for one source.
// Order matters: mapped columns appear in the output in mapping order,
// so two sources sharing a mapping produce identically shaped tables.
type Mapping []ColumnRename

// Targets returns the canonical column names in mapping order.
func (m Mapping) Targets() []string {
	out := make([]string, len(m))
	for i, r := range m {
		out[i] = r.To
	}
	return out
}

// Identity builds a mapping that keeps each column under its own name.
// Used for sources whose files already carry canonical headers.
func Identity(columns []string) Mapping {
	m := make(Mapping, len(columns))
	for i, c := range columns {
		m[i] = ColumnRename{From: c, To: c}
	}
	return m
}

// SourceSpec describes one input file registered with the pipeline.
type SourceSpec struct {
	Name    string       // Unique source identifier, recorded in the provenance column
	Path    string       // File path (.csv, .xlsx, or .xls)
	Mapping Mapping      // Raw-to-canonical column renames
	Status  SourceStatus // Updated as the source moves through extraction and mapping
	Failure FailureKind  // Set when Status is SourceFailed
}

// FilterRule keeps only rows matching a condition on one column.
// Exactly one of Equals or the Min/Max range should be set.
type FilterRule struct {
	Column string   // Column to test
	Equals *string  // Exact match against the rendered cell value
	Min    *float64 // Inclusive lower bound (numeric)
	Max    *float64 // Inclusive upper bound (numeric)
}

// AggregateRule reduces the table to one row per distinct group key.
type AggregateRule struct {
	GroupBy string            // Column whose distinct values form the groups
	Columns map[string]string // Column -> aggregation: count, sum, mean, min, max
}

// Options control the transform phase.
type Options struct {
	DateColumns      []string          // Columns reformatted to ISO YYYY-MM-DD
	RemoveDuplicates bool              // Drop exact duplicate rows after normalization
	FillMissing      map[string]string // Column -> replacement for null cells
	FinalColumns     []string          // Optional output projection, in list order
	Filters          []FilterRule      // Optional row filters, applied in order
	Aggregate        *AggregateRule    // Optional group-by aggregation
}

// DefaultOptions returns the transform options used when a run file
// leaves the transform section empty.
func DefaultOptions() Options {
	return Options{RemoveDuplicates: true}
}

// Result summarizes a finished run for callers and the CLI.
type Result struct {
	Status       Status // Terminal pipeline status
	OutputPath   string // Location of the written output, empty on failure
	Rows         int    // Rows in the final table, 0 on failure
	Columns      int    // Columns in the final table, 0 on failure
	SourcesOK    int    // Sources that survived extraction and mapping
	SourcesTotal int    // Sources registered
}
