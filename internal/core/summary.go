package core

// summary.go renders human-readable run output for the CLI: the
// end-of-run account of ledger activity and a preview of the final
// table.

import (
	"fmt"
	"io"
	"strings"
)

// Display limits for console rendering.
const (
	maxPreviewRows = 10
	maxCellWidth   = 24
	bannerWidth    = 60
)

// WriteSummary renders the run outcome and every ledger entry as a
// console block. Entries keep their ledger order.
func WriteSummary(w io.Writer, result Result, report Report) {
	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "%s\n", banner)
	fmt.Fprintf(w, "PIPELINE EXECUTION SUMMARY\n")
	fmt.Fprintf(w, "%s\n", banner)
	fmt.Fprintf(w, "Final Status: %s\n", result.Status)
	fmt.Fprintf(w, "Sources: %d/%d processed\n", result.SourcesOK, result.SourcesTotal)
	if result.OutputPath != "" {
		fmt.Fprintf(w, "Output: %s (%d rows, %d columns)\n", result.OutputPath, result.Rows, result.Columns)
	}
	fmt.Fprintf(w, "Total Errors: %d\n", report.TotalErrors)
	fmt.Fprintf(w, "Total Warnings: %d\n", report.TotalWarnings)
	fmt.Fprintf(w, "Total Corrections: %d\n", report.TotalCorrections)

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nERRORS (%d):\n", len(report.Errors))
		for i, e := range report.Errors {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, e.Stage, e.Error)
			if e.Details != "" {
				fmt.Fprintf(w, "     %s\n", e.Details)
			}
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWARNINGS (%d):\n", len(report.Warnings))
		for i, wn := range report.Warnings {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wn.Stage, wn.Warning)
		}
	}

	if len(report.Corrections) > 0 {
		fmt.Fprintf(w, "\nCORRECTIONS (%d):\n", len(report.Corrections))
		for i, c := range report.Corrections {
			fmt.Fprintf(w, "  %d. [%s] %s - %d rows affected\n", i+1, c.Stage, c.Action, c.AffectedRows)
		}
	}
}

// WritePreview renders up to n rows of the table as an aligned text
// grid. Zero or negative n falls back to the default sample size; long
// cells are truncated so the block stays scannable.
func WritePreview(w io.Writer, t *Table, n int) {
	if t == nil || t.NumCols() == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}
	if n <= 0 {
		n = maxPreviewRows
	}
	if n > t.NumRows() {
		n = t.NumRows()
	}

	header := t.Columns()
	widths := make([]int, len(header))
	for j, c := range header {
		header[j] = truncateCell(c)
		widths[j] = len(header[j])
	}

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := t.RenderRow(i)
		for j := range row {
			row[j] = truncateCell(row[j])
			if len(row[j]) > widths[j] {
				widths[j] = len(row[j])
			}
		}
		rows[i] = row
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = fmt.Sprintf("%-*s", widths[j], c)
		}
		fmt.Fprintf(w, "%s\n", strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(header)
	sep := make([]string, len(header))
	for j := range sep {
		sep[j] = strings.Repeat("-", widths[j])
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	if t.NumRows() > n {
		fmt.Fprintf(w, "... %d more rows\n", t.NumRows()-n)
	}
}

func truncateCell(s string) string {
	if len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}
