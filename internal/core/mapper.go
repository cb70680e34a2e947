package core

// mapper.go projects raw source columns onto the canonical schema and
// stamps provenance. Mapping is the gate between "whatever the file
// called its columns" and the shared vocabulary every later phase
// relies on.

import "fmt"

// ProvenanceColumn is the generated column recording which source each
// row came from. It is the only way per-source attribution survives
// consolidation.
const ProvenanceColumn = "source"

// MapColumns selects the mapping keys present in the table, renames them
// to their canonical targets in mapping order, and appends the
// provenance column. Keys absent from the table draw one warning; if no
// key matches at all, an error is recorded and mapping fails.
func MapColumns(ledger *Ledger, t *Table, spec SourceSpec) (*Table, bool) {
	var available []ColumnRename
	var missing []string
	for _, r := range spec.Mapping {
		if t.HasColumn(r.From) {
			available = append(available, r)
		} else {
			missing = append(missing, r.From)
		}
	}

	if len(missing) > 0 {
		ledger.Warning(
			MappingStage(spec.Name),
			fmt.Sprintf("Missing columns in mapping: %v", missing),
		)
	}

	if len(available) == 0 {
		ledger.Error(
			MappingStage(spec.Name),
			"No columns could be mapped",
			fmt.Sprintf("Available cols: %v", t.Columns()),
			nil,
		)
		return nil, false
	}

	targets := make([]string, len(available))
	idxs := make([]int, len(available))
	for k, r := range available {
		targets[k] = r.To
		idxs[k], _ = t.ColumnIndex(r.From)
	}

	out := NewTable(targets)
	for i := 0; i < t.NumRows(); i++ {
		cells := make([]Cell, len(idxs))
		for k, j := range idxs {
			cells[k] = t.CellAt(i, j)
		}
		out.AppendRow(cells)
	}

	// Stamp provenance. If a rename already claimed the provenance name,
	// overwrite that column instead of appending a second one.
	src := StringCell(spec.Name)
	if !out.AddColumn(ProvenanceColumn, src) {
		for i := 0; i < out.NumRows(); i++ {
			out.SetCell(i, ProvenanceColumn, src)
		}
	}

	return out, true
}
