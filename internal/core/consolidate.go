package core

// consolidate.go merges the surviving per-source tables into one.

// Consolidate stacks mapped tables in registration order under the
// union of their columns. The union keeps first-appearance column
// order; rows from a table lacking a union column receive null there,
// and no row is ever dropped. Fails only when no tables survived
// upstream processing.
func Consolidate(ledger *Ledger, tables []*Table) (*Table, bool) {
	if len(tables) == 0 {
		ledger.Error(
			StageConsolidation,
			"No data sources to consolidate",
			"All sources failed to process",
			nil,
		)
		return nil, false
	}

	var union []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns() {
			if !seen[c] {
				seen[c] = true
				union = append(union, c)
			}
		}
	}

	out := NewTable(union)
	for _, t := range tables {
		idxs := make([]int, len(union))
		for k, c := range union {
			if j, ok := t.ColumnIndex(c); ok {
				idxs[k] = j
			} else {
				idxs[k] = -1
			}
		}

		for i := 0; i < t.NumRows(); i++ {
			cells := make([]Cell, len(union))
			for k, j := range idxs {
				if j >= 0 {
					cells[k] = t.CellAt(i, j)
				}
			}
			out.AppendRow(cells)
		}
	}

	return out, true
}
