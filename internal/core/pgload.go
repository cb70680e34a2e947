package core

// pgload.go mirrors the transformed table into an optional PostgreSQL
// destination alongside the file output.

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ColumnType classifies a table column for the database destination.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnNumeric
	ColumnDate
)

func (ct ColumnType) sqlType() string {
	switch ct {
	case ColumnNumeric:
		return "numeric"
	case ColumnDate:
		return "date"
	default:
		return "text"
	}
}

// DBLoader writes consolidated rows into a PostgreSQL table. The zero
// value is not usable; populate DB and Table before calling Load.
type DBLoader struct {
	DB          DBTX   // connection, pool, or transaction
	Table       string // destination table name
	CreateTable bool   // issue CREATE TABLE IF NOT EXISTS first
	BatchSize   int    // rows per INSERT statement, defaults to 500
}

// Load writes every row of the table, optionally creating the
// destination first. Rows are inserted in multi-row batches so a run
// with thousands of rows stays at a handful of round trips.
func (dl *DBLoader) Load(ctx context.Context, t *Table) error {
	if dl.Table == "" {
		return fmt.Errorf("no destination table configured")
	}
	batch := dl.BatchSize
	if batch <= 0 {
		batch = 500
	}

	dbCols := toDBColumnNames(t.Columns())
	types := inferColumnTypes(t)

	if dl.CreateTable {
		if err := dl.createTable(ctx, dbCols, types); err != nil {
			return err
		}
	}

	for start := 0; start < t.NumRows(); start += batch {
		end := min(start+batch, t.NumRows())
		if err := dl.insertBatch(ctx, t, dbCols, types, start, end); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

func (dl *DBLoader) createTable(ctx context.Context, dbCols []string, types []ColumnType) error {
	defs := make([]string, len(dbCols))
	for i, col := range dbCols {
		defs[i] = fmt.Sprintf("%s %s", pgx.Identifier{col}.Sanitize(), types[i].sqlType())
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{toDBColumnName(dl.Table)}.Sanitize(),
		strings.Join(defs, ", "),
	)
	if _, err := dl.DB.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create destination table: %w", err)
	}
	return nil
}

func (dl *DBLoader) insertBatch(ctx context.Context, t *Table, dbCols []string, types []ColumnType, start, end int) error {
	quoted := make([]string, len(dbCols))
	for i, col := range dbCols {
		quoted[i] = pgx.Identifier{col}.Sanitize()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ",
		pgx.Identifier{toDBColumnName(dl.Table)}.Sanitize(),
		strings.Join(quoted, ", "),
	)

	args := make([]any, 0, (end-start)*len(dbCols))
	n := 1
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range dbCols {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", n)
			n++
			args = append(args, pgValue(t.CellAt(i, j), types[j]))
		}
		sb.WriteByte(')')
	}

	_, err := dl.DB.Exec(ctx, sb.String(), args...)
	return err
}

// pgValue converts a cell to the pgtype wrapper matching the column's
// declared type, so nulls arrive as SQL NULL rather than empty strings.
func pgValue(c Cell, ct ColumnType) any {
	switch ct {
	case ColumnDate:
		return ToPgDate(c)
	case ColumnNumeric:
		return ToPgNumeric(c)
	default:
		return ToPgText(c)
	}
}

// inferColumnTypes picks a destination type per column: date when every
// non-null cell is a date, numeric when every non-null cell is a
// number, text otherwise. All-null columns default to text.
func inferColumnTypes(t *Table) []ColumnType {
	out := make([]ColumnType, t.NumCols())
	for j := range out {
		allDate, allNum, seen := true, true, false
		for i := 0; i < t.NumRows(); i++ {
			c := t.CellAt(i, j)
			if c.IsNull() {
				continue
			}
			seen = true
			if c.Kind != KindDate {
				allDate = false
			}
			if c.Kind != KindNumber {
				allNum = false
			}
			if !allDate && !allNum {
				break
			}
		}
		switch {
		case seen && allDate:
			out[j] = ColumnDate
		case seen && allNum:
			out[j] = ColumnNumeric
		default:
			out[j] = ColumnText
		}
	}
	return out
}
