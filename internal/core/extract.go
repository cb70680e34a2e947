package core

// extract.go pulls raw source files into typed tables.

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/tabfuse/internal/tabfile"
)

// TableFromGrid converts a raw grid into a typed table. Headers are
// cleaned of export artifacts, short rows padded with null, long rows
// truncated to the header width, and each cell typed by ParseCell.
func TableFromGrid(g *tabfile.Grid) *Table {
	header := make([]string, len(g.Header))
	for i, h := range g.Header {
		header[i] = CleanCell(h)
	}

	t := NewTable(header)
	for _, rec := range g.Records {
		cells := make([]Cell, len(header))
		for j := 0; j < len(header) && j < len(rec); j++ {
			cells[j] = ParseCell(rec[j])
		}
		t.AppendRow(cells)
	}
	return t
}

// extractSource reads one source file into a typed table, updating the
// source's status on every outcome. A missing file, unreadable content,
// or shapeless result fails only this source.
func (p *Pipeline) extractSource(src *SourceSpec) (*Table, bool) {
	if !ValidateFileExists(p.ledger, src.Path) {
		src.Status = SourceFailed
		src.Failure = FailureNotFound
		return nil, false
	}

	grid, err := tabfile.Read(src.Path)
	if err != nil {
		p.ledger.Error(
			ExtractionStage(src.Name),
			fmt.Sprintf("Failed to read file: %s", src.Path),
			err.Error(),
			err,
		)
		src.Status = SourceFailed
		if errors.Is(err, tabfile.ErrUnsupportedFormat) {
			src.Failure = FailureUnsupported
		} else {
			src.Failure = FailureParse
		}
		return nil, false
	}

	t := TableFromGrid(grid)
	src.Status = SourceExtracted
	p.logger.Info("source extracted",
		"source", src.Name,
		"rows", t.NumRows(),
		"columns", t.NumCols(),
	)

	if !ValidateTable(p.ledger, t, src.Name) {
		src.Status = SourceFailed
		src.Failure = FailureValidation
		return nil, false
	}

	return t, true
}
