package core

// rectify.go implements the automatic repair passes applied between
// extraction and load. Each pass is idempotent and tolerates absent
// columns; repairs are recorded as ledger corrections, never as
// failures.

import (
	"fmt"
	"sort"
	"strings"
)

// isDateColumn reports whether a column name selects date coercion.
// The substring match is deliberately loose and misfires on names like
// "update_date_flag"; renaming such columns is the only workaround.
func isDateColumn(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "date") || strings.Contains(lower, "dob")
}

// isSalaryColumn reports whether a column name selects numeric coercion.
func isSalaryColumn(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "salary") {
		return true
	}
	switch lower {
	case "pay", "annual_salary", "compensation":
		return true
	}
	return false
}

// EnsureColumns adds any required column missing from the table, filled
// entirely with null. One correction per inserted column, with the
// table's row count as the affected rows.
func EnsureColumns(ledger *Ledger, t *Table, required []string, stage string) {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return
	}

	ledger.Warning(stage, fmt.Sprintf("Missing columns detected: %v", missing))
	for _, col := range missing {
		t.AddColumn(col, NullCell())
		ledger.Correction(
			stage,
			fmt.Sprintf("Added missing column: %s (filled with null)", col),
			t.NumRows(),
		)
	}
}

// CoerceTypes retypes columns by name heuristics: date-named columns are
// parsed as dates and salary-named columns as numbers, with unparseable
// values becoming null. One summary correction counts the touched
// columns when any matched.
func CoerceTypes(ledger *Ledger, t *Table) {
	touched := 0

	for j, col := range t.Columns() {
		switch {
		case isDateColumn(col):
			coerceColumn(t, j, func(c Cell) Cell {
				if d, ok := ParseDate(c.Render()); ok {
					return DateCell(d)
				}
				return NullCell()
			})
			touched++
		case isSalaryColumn(col):
			coerceColumn(t, j, func(c Cell) Cell {
				if f, ok := c.AsNumber(); ok {
					return NumberCell(f)
				}
				return NullCell()
			})
			touched++
		}
	}

	if touched > 0 {
		ledger.Correction(
			StageDataTypeFix,
			fmt.Sprintf("Rectified data types for %d columns", touched),
			t.NumRows(),
		)
	}
}

// coerceColumn rewrites every non-null cell of column j through fn.
func coerceColumn(t *Table, j int, fn func(Cell) Cell) {
	for i := 0; i < t.NumRows(); i++ {
		c := t.CellAt(i, j)
		if c.IsNull() {
			continue
		}
		t.SetCellAt(i, j, fn(c))
	}
}

// DropDuplicates removes exact full-row duplicates, keeping the first
// occurrence, and returns the deduplicated table. Logs a correction with
// the removed count only when rows were actually removed.
func DropDuplicates(ledger *Ledger, t *Table, stage string) *Table {
	seen := make(map[string]bool, t.NumRows())
	out := NewTable(t.Columns())
	for i := 0; i < t.NumRows(); i++ {
		key := t.fingerprint(i)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.AppendRow(t.rows[i])
	}

	removed := t.NumRows() - out.NumRows()
	if removed > 0 {
		ledger.Correction(stage, "Removed duplicate rows", removed)
	}
	return out
}

// FillMissing replaces null cells according to the fill rules. Rules
// naming absent columns are skipped. Each applied rule logs one
// correction whose affected rows equal the number of cells filled.
// Rules run in sorted column order so reports are reproducible.
func FillMissing(ledger *Ledger, t *Table, rules map[string]string) {
	cols := make([]string, 0, len(rules))
	for col := range rules {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		j, ok := t.ColumnIndex(col)
		if !ok {
			continue
		}

		value := rules[col]
		fill := ParseCell(value)
		if fill.IsNull() {
			fill = StringCell(value)
		}

		filled := 0
		for i := 0; i < t.NumRows(); i++ {
			if t.CellAt(i, j).IsNull() {
				t.SetCellAt(i, j, fill)
				filled++
			}
		}

		if filled > 0 {
			ledger.Correction(
				StageMissingValues,
				fmt.Sprintf("Filled %d missing values in %s with '%s'", filled, col, value),
				filled,
			)
		}
	}
}
