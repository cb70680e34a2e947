package core

// table.go implements the in-memory table that flows between pipeline phases.
//
// A Table is a rectangular grid of typed cells under an ordered column list.
// Cells are a variant over four kinds: null, string, number, and date. The
// heuristics that coerce raw strings into numbers and dates live in
// convert.go; this file only stores, addresses, and copies values.

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the variants of a Cell.
type CellKind int

const (
	KindNull CellKind = iota
	KindString
	KindNumber
	KindDate
)

// Cell is a single typed value in a Table.
// The zero value is the null cell. Exactly one payload field is
// meaningful, selected by Kind.
type Cell struct {
	Kind CellKind
	Str  string    // Set when Kind == KindString
	Num  float64   // Set when Kind == KindNumber
	Day  time.Time // Set when Kind == KindDate
}

// NullCell returns the null cell.
func NullCell() Cell {
	return Cell{}
}

// StringCell returns a string-valued cell.
func StringCell(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Num: f}
}

// DateCell returns a date-valued cell, truncated to the day.
func DateCell(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{Kind: KindDate, Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsNull reports whether the cell is the null variant.
func (c Cell) IsNull() bool {
	return c.Kind == KindNull
}

// Render returns the cell's output representation: empty for null,
// the shortest round-trip decimal for numbers, ISO YYYY-MM-DD for dates.
func (c Cell) Render() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindDate:
		return c.Day.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports whether two cells have the same kind and value.
func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case KindString:
		return c.Str == other.Str
	case KindNumber:
		return c.Num == other.Num
	case KindDate:
		return c.Day.Equal(other.Day)
	default:
		return true
	}
}

// AsNumber returns the cell's numeric value. String cells are parsed
// with the numeric cleanup heuristics; null and date cells report false.
func (c Cell) AsNumber() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Num, true
	case KindString:
		return ParseNumber(c.Str)
	default:
		return 0, false
	}
}

// AsDate returns the cell's date value. String cells are parsed with
// the date layout heuristics; null and number cells report false.
func (c Cell) AsDate() (time.Time, bool) {
	switch c.Kind {
	case KindDate:
		return c.Day, true
	case KindString:
		return ParseDate(c.Str)
	default:
		return time.Time{}, false
	}
}

// appendKey writes an unambiguous encoding of the cell for row
// fingerprinting. The kind prefix keeps null distinct from "".
func (c Cell) appendKey(b *strings.Builder) {
	switch c.Kind {
	case KindString:
		b.WriteByte('s')
		b.WriteString(c.Str)
	case KindNumber:
		b.WriteByte('n')
		b.WriteString(strconv.FormatFloat(c.Num, 'g', -1, 64))
	case KindDate:
		b.WriteByte('d')
		b.WriteString(c.Day.Format("20060102"))
	default:
		b.WriteByte('0')
	}
}

// Table is an ordered-column grid of cells.
// Column order is preserved exactly as built; lookups by name resolve
// to the first occurrence of a header.
type Table struct {
	cols []string
	idx  map[string]int
	rows [][]Cell
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	t := &Table{
		cols: append([]string(nil), columns...),
		idx:  make(map[string]int, len(columns)),
	}
	for i, c := range t.cols {
		if _, exists := t.idx[c]; !exists {
			t.idx[c] = i
		}
	}
	return t
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// ColumnIndex returns the position of a column, or false if absent.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.idx[name]
	return i, ok
}

// AppendRow adds a row, padding short rows with null and truncating
// rows longer than the column list.
func (t *Table) AppendRow(cells []Cell) {
	row := make([]Cell, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Cell returns the value at row i in the named column.
// Returns false if the column does not exist or i is out of range.
func (t *Table) Cell(i int, column string) (Cell, bool) {
	j, ok := t.idx[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return Cell{}, false
	}
	return t.rows[i][j], true
}

// CellAt returns the value at row i, column j without bounds checks.
func (t *Table) CellAt(i, j int) Cell {
	return t.rows[i][j]
}

// SetCell overwrites the value at row i in the named column.
// Returns false if the column does not exist or i is out of range.
func (t *Table) SetCell(i int, column string, c Cell) bool {
	j, ok := t.idx[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return false
	}
	t.rows[i][j] = c
	return true
}

// SetCellAt overwrites the value at row i, column j without bounds checks.
func (t *Table) SetCellAt(i, j int, c Cell) {
	t.rows[i][j] = c
}

// AddColumn appends a new column filled with the given cell in every
// existing row. Returns false without mutation if the name is taken.
func (t *Table) AddColumn(name string, fill Cell) bool {
	if _, exists := t.idx[name]; exists {
		return false
	}
	t.idx[name] = len(t.cols)
	t.cols = append(t.cols, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
	return true
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Cell {
	return append([]Cell(nil), t.rows[i]...)
}

// RenderRow returns row i with every cell rendered to its output form.
func (t *Table) RenderRow(i int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.rows[i] {
		out[j] = c.Render()
	}
	return out
}

// Select returns a new table holding only the named columns, in the
// given order. Unknown names are skipped; rows are copied.
func (t *Table) Select(columns []string) *Table {
	keep := make([]int, 0, len(columns))
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		if j, ok := t.idx[c]; ok {
			keep = append(keep, j)
			names = append(names, c)
		}
	}

	out := NewTable(names)
	for _, row := range t.rows {
		cells := make([]Cell, len(keep))
		for k, j := range keep {
			cells[k] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out
}

// Head returns a new table with at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := NewTable(t.cols)
	for i := 0; i < n; i++ {
		out.AppendRow(t.rows[i])
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.cols)
	for _, row := range t.rows {
		out.AppendRow(row)
	}
	return out
}

// fingerprint returns a key identifying row i's exact cell values,
// used for full-row duplicate detection.
func (t *Table) fingerprint(i int) string {
	var b strings.Builder
	for _, c := range t.rows[i] {
		c.appendKey(&b)
		b.WriteByte(0x1f)
	}
	return b.String()
}
