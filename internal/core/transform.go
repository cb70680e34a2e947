package core

// transform.go applies the configured reshaping steps to the
// consolidated table. The step order is fixed: gender normalization,
// date formatting, missing-value filling, duplicate removal, optional
// row filters and aggregation, and finally column projection.

import "fmt"

// GenderColumn is the column targeted by gender normalization.
const GenderColumn = "gender"

// Transform runs the configured steps and returns the reshaped table.
// The input is cloned first, so the consolidated table survives intact.
// Every step is total; bad values become null or Unknown rather than
// failing the phase.
func Transform(ledger *Ledger, t *Table, opts Options) *Table {
	out := t.Clone()

	// 1. Gender normalization, only when the column exists. Nulls map
	// to Unknown here, before any fill rule sees the column.
	if j, ok := out.ColumnIndex(GenderColumn); ok {
		for i := 0; i < out.NumRows(); i++ {
			out.SetCellAt(i, j, StringCell(NormalizeGender(out.CellAt(i, j))))
		}
	}

	// 2. Date formatting for the configured columns; absent columns are
	// skipped silently, unparseable values become null.
	for _, col := range opts.DateColumns {
		j, ok := out.ColumnIndex(col)
		if !ok {
			continue
		}
		for i := 0; i < out.NumRows(); i++ {
			c := out.CellAt(i, j)
			if c.IsNull() {
				continue
			}
			if d, parsed := ParseDate(c.Render()); parsed {
				out.SetCellAt(i, j, DateCell(d))
			} else {
				out.SetCellAt(i, j, NullCell())
			}
		}
	}

	// 3. Missing-value filling
	if len(opts.FillMissing) > 0 {
		FillMissing(ledger, out, opts.FillMissing)
	}

	// 4. Duplicate removal after normalization, which can expose
	// duplicates invisible before formatting
	if opts.RemoveDuplicates {
		out = DropDuplicates(ledger, out, StageTransform)
	}

	// 5. Optional row filters
	if len(opts.Filters) > 0 {
		out = ApplyFilters(ledger, out, opts.Filters)
	}

	// 6. Optional group-by aggregation
	if opts.Aggregate != nil {
		out = AggregateTable(ledger, out, *opts.Aggregate)
	}

	// 7. Final column projection, in the order the configuration lists
	// the columns, not the table's natural order
	if len(opts.FinalColumns) > 0 {
		var missing []string
		for _, col := range opts.FinalColumns {
			if !out.HasColumn(col) {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			ledger.Warning(
				StageTransform,
				fmt.Sprintf("Requested columns not in data: %v", missing),
			)
		}
		out = out.Select(opts.FinalColumns)
	}

	return out
}
