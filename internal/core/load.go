package core

// load.go persists the transformed table to the output file.

import (
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/tabfuse/internal/tabfile"
)

// WriteTable serializes a table to disk, choosing the format from the
// file extension. One header row, one record per data row, no synthetic
// index column. Cells render as empty string for null, plain decimal
// for numbers, and YYYY-MM-DD for dates.
func WriteTable(t *Table, path string) error {
	records := make([][]string, t.NumRows())
	for i := range records {
		records[i] = t.RenderRow(i)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return tabfile.WriteXLSX(path, t.Columns(), records)
	}
	return tabfile.WriteCSV(path, t.Columns(), records)
}
