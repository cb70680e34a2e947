package core

// ops.go provides the optional row filtering and group-by aggregation
// steps of the transform phase.

import (
	"fmt"
	"strings"
)

// ApplyFilters applies each rule in order, keeping only matching rows.
// Rules naming absent columns draw a warning and are skipped; null
// cells never match any rule.
func ApplyFilters(ledger *Ledger, t *Table, rules []FilterRule) *Table {
	out := t
	for _, rule := range rules {
		j, ok := out.ColumnIndex(rule.Column)
		if !ok {
			ledger.Warning(
				StageTransform,
				fmt.Sprintf("Filter column '%s' not found", rule.Column),
			)
			continue
		}

		kept := NewTable(out.Columns())
		for i := 0; i < out.NumRows(); i++ {
			if matchesFilter(out.CellAt(i, j), rule) {
				kept.AppendRow(out.rows[i])
			}
		}
		out = kept
	}
	return out
}

// matchesFilter reports whether a cell satisfies one filter rule.
// Equality compares numerically when both sides parse as numbers,
// otherwise by rendered value. Range bounds are inclusive and only
// numeric cells can fall inside a range.
func matchesFilter(c Cell, rule FilterRule) bool {
	if c.IsNull() {
		return false
	}

	if rule.Equals != nil {
		if want, wok := ParseNumber(*rule.Equals); wok {
			if got, ok := c.AsNumber(); ok {
				return got == want
			}
		}
		return c.Render() == *rule.Equals
	}

	f, ok := c.AsNumber()
	if !ok {
		return false
	}
	if rule.Min != nil && f < *rule.Min {
		return false
	}
	if rule.Max != nil && f > *rule.Max {
		return false
	}
	return true
}

// aggFuncs lists the supported aggregation function names.
var aggFuncs = map[string]bool{
	"count": true,
	"sum":   true,
	"mean":  true,
	"min":   true,
	"max":   true,
}

// AggregateTable reduces the table to one row per distinct group key,
// in first-appearance order. Count tallies non-null cells; sum, mean,
// min, and max consider numeric cells only and yield null for groups
// without any. Rows with a null group key are dropped. A bad rule
// (absent column, unknown function, aggregating the group column)
// records an error and returns the input unchanged.
func AggregateTable(ledger *Ledger, t *Table, rule AggregateRule) *Table {
	gj, ok := t.ColumnIndex(rule.GroupBy)
	if !ok {
		return aggError(ledger, t, fmt.Sprintf("Group column not found: %s", rule.GroupBy))
	}

	for col, fn := range rule.Columns {
		if col == rule.GroupBy {
			return aggError(ledger, t, fmt.Sprintf("Cannot aggregate the group column: %s", col))
		}
		if !t.HasColumn(col) {
			return aggError(ledger, t, fmt.Sprintf("Column not found: %s", col))
		}
		if !aggFuncs[fn] {
			return aggError(ledger, t, fmt.Sprintf("Unknown aggregation '%s' for column %s", fn, col))
		}
	}

	// Aggregated columns follow the table's column order.
	type aggCol struct {
		name string
		fn   string
		idx  int
	}
	var aggs []aggCol
	for j, col := range t.Columns() {
		if fn, wanted := rule.Columns[col]; wanted {
			aggs = append(aggs, aggCol{name: col, fn: fn, idx: j})
		}
	}

	groups := make(map[string][]int)
	keyCells := make(map[string]Cell)
	var keys []string
	for i := 0; i < t.NumRows(); i++ {
		kc := t.CellAt(i, gj)
		if kc.IsNull() {
			continue
		}
		key := cellKey(kc)
		if _, exists := groups[key]; !exists {
			keys = append(keys, key)
			keyCells[key] = kc
		}
		groups[key] = append(groups[key], i)
	}

	cols := make([]string, 0, 1+len(aggs))
	cols = append(cols, rule.GroupBy)
	for _, a := range aggs {
		cols = append(cols, a.name)
	}

	out := NewTable(cols)
	for _, key := range keys {
		members := groups[key]
		cells := make([]Cell, 0, len(cols))
		cells = append(cells, keyCells[key])
		for _, a := range aggs {
			cells = append(cells, aggregateCells(t, members, a.idx, a.fn))
		}
		out.AppendRow(cells)
	}
	return out
}

func aggError(ledger *Ledger, t *Table, details string) *Table {
	ledger.Error(StageTransform, "Error during aggregation", details, nil)
	return t
}

// aggregateCells computes one aggregation over the given rows of column j.
func aggregateCells(t *Table, rows []int, j int, fn string) Cell {
	if fn == "count" {
		n := 0
		for _, i := range rows {
			if !t.CellAt(i, j).IsNull() {
				n++
			}
		}
		return NumberCell(float64(n))
	}

	var vals []float64
	for _, i := range rows {
		if f, ok := t.CellAt(i, j).AsNumber(); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return NullCell()
	}

	switch fn {
	case "sum", "mean":
		sum := 0.0
		for _, f := range vals {
			sum += f
		}
		if fn == "mean" {
			return NumberCell(sum / float64(len(vals)))
		}
		return NumberCell(sum)
	case "min":
		m := vals[0]
		for _, f := range vals[1:] {
			if f < m {
				m = f
			}
		}
		return NumberCell(m)
	case "max":
		m := vals[0]
		for _, f := range vals[1:] {
			if f > m {
				m = f
			}
		}
		return NumberCell(m)
	}
	return NullCell()
}

// cellKey returns the fingerprint encoding of a single cell.
func cellKey(c Cell) string {
	var b strings.Builder
	c.appendKey(&b)
	return b.String()
}
