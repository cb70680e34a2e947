package core

import (
	"fmt"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// Column Heuristic Tests
// ----------------------------------------------------------------------------

func TestIsDateColumn(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"date_of_birth", true},
		{"DOB", true},
		{"joining_date", true},
		{"StartDate", true},
		{"salary", false},
		{"department", false},
		{"update_date_flag", true}, // known misfire, documented on the heuristic
	}
	for _, tt := range tests {
		if got := isDateColumn(tt.name); got != tt.want {
			t.Errorf("isDateColumn(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsSalaryColumn(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"salary", true},
		{"Annual_Salary", true},
		{"base_salary_usd", true},
		{"pay", true},
		{"compensation", true},
		{"payment_method", false}, // only the exact name "pay" matches
		{"department", false},
		{"date_of_birth", false},
	}
	for _, tt := range tests {
		if got := isSalaryColumn(tt.name); got != tt.want {
			t.Errorf("isSalaryColumn(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// EnsureColumns Tests
// ----------------------------------------------------------------------------

func TestEnsureColumns(t *testing.T) {
	tbl := NewTable([]string{"employee_id", "first_name"})
	tbl.AppendRow([]Cell{NumberCell(1), StringCell("Alice")})
	tbl.AppendRow([]Cell{NumberCell(2), StringCell("Bob")})

	l := NewLedger(testLogger())
	required := []string{"employee_id", "first_name", "salary", "department"}
	EnsureColumns(l, tbl, required, "feed_a")

	// Missing columns are appended in required order, filled with null.
	want := []string{"employee_id", "first_name", "salary", "department"}
	got := tbl.Columns()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
	for i := 0; i < tbl.NumRows(); i++ {
		if c, _ := tbl.Cell(i, "salary"); !c.IsNull() {
			t.Errorf("row %d salary = %v, want null", i, c)
		}
	}

	// One warning listing the gap, one correction per inserted column.
	if l.WarningCount() != 1 {
		t.Fatalf("warnings = %d, want 1", l.WarningCount())
	}
	r := l.Report()
	if got := r.Warnings[0].Warning; got != "Missing columns detected: [salary department]" {
		t.Errorf("warning = %q", got)
	}
	if l.CorrectionCount() != 2 {
		t.Fatalf("corrections = %d, want 2", l.CorrectionCount())
	}
	if got := r.Corrections[0].Action; got != "Added missing column: salary (filled with null)" {
		t.Errorf("correction = %q", got)
	}
	if got := r.Corrections[0].AffectedRows; got != 2 {
		t.Errorf("affected_rows = %d, want 2", got)
	}
	if got := r.Corrections[0].Stage; got != "feed_a" {
		t.Errorf("stage = %q, want feed_a", got)
	}
}

func TestEnsureColumnsComplete(t *testing.T) {
	tbl := NewTable([]string{"a", "b"})
	tbl.AppendRow([]Cell{NumberCell(1), NumberCell(2)})

	l := NewLedger(testLogger())
	EnsureColumns(l, tbl, []string{"a", "b"}, "feed_a")

	if l.WarningCount() != 0 || l.CorrectionCount() != 0 {
		t.Errorf("complete table recorded %d warnings, %d corrections",
			l.WarningCount(), l.CorrectionCount())
	}
	if tbl.NumCols() != 2 {
		t.Errorf("columns = %d, want 2", tbl.NumCols())
	}
}

func TestEnsureColumnsIdempotent(t *testing.T) {
	tbl := NewTable([]string{"a"})
	tbl.AppendRow([]Cell{NumberCell(1)})

	l := NewLedger(testLogger())
	EnsureColumns(l, tbl, []string{"a", "b"}, "feed_a")
	EnsureColumns(l, tbl, []string{"a", "b"}, "feed_a")

	// Second pass finds nothing to add and stays silent.
	if tbl.NumCols() != 2 {
		t.Errorf("columns = %d, want 2", tbl.NumCols())
	}
	if l.CorrectionCount() != 1 {
		t.Errorf("corrections = %d, want 1", l.CorrectionCount())
	}
}

// ----------------------------------------------------------------------------
// CoerceTypes Tests
// ----------------------------------------------------------------------------

func TestCoerceTypes(t *testing.T) {
	tbl := NewTable([]string{"date_of_birth", "salary", "first_name"})
	tbl.AppendRow([]Cell{StringCell("1985-03-14"), StringCell("$55,000"), StringCell("Alice")})
	tbl.AppendRow([]Cell{StringCell("06/14/1990"), NumberCell(61000), StringCell("Bob")})
	tbl.AppendRow([]Cell{StringCell("not a date"), StringCell("garbage"), StringCell("Cara")})
	tbl.AppendRow([]Cell{NullCell(), NullCell(), StringCell("Dee")})

	l := NewLedger(testLogger())
	CoerceTypes(l, tbl)

	// Date column: parseable strings become dates, garbage becomes null.
	if c, _ := tbl.Cell(0, "date_of_birth"); c.Kind != KindDate || c.Render() != "1985-03-14" {
		t.Errorf("row 0 dob = %v", c)
	}
	if c, _ := tbl.Cell(1, "date_of_birth"); c.Kind != KindDate || c.Render() != "1990-06-14" {
		t.Errorf("row 1 dob = %v", c)
	}
	if c, _ := tbl.Cell(2, "date_of_birth"); !c.IsNull() {
		t.Errorf("unparseable date = %v, want null", c)
	}
	if c, _ := tbl.Cell(3, "date_of_birth"); !c.IsNull() {
		t.Errorf("null date = %v, want null", c)
	}

	// Salary column: currency strings become numbers, garbage becomes null.
	if c, _ := tbl.Cell(0, "salary"); c.Kind != KindNumber || c.Num != 55000 {
		t.Errorf("row 0 salary = %v", c)
	}
	if c, _ := tbl.Cell(1, "salary"); c.Kind != KindNumber || c.Num != 61000 {
		t.Errorf("row 1 salary = %v", c)
	}
	if c, _ := tbl.Cell(2, "salary"); !c.IsNull() {
		t.Errorf("unparseable salary = %v, want null", c)
	}

	// Untyped columns pass through untouched.
	if c, _ := tbl.Cell(0, "first_name"); c.Str != "Alice" {
		t.Errorf("first_name = %v", c)
	}

	// One summary correction covering both touched columns.
	if l.CorrectionCount() != 1 {
		t.Fatalf("corrections = %d, want 1", l.CorrectionCount())
	}
	r := l.Report()
	if got := r.Corrections[0].Action; got != "Rectified data types for 2 columns" {
		t.Errorf("correction = %q", got)
	}
	if got := r.Corrections[0].Stage; got != StageDataTypeFix {
		t.Errorf("stage = %q, want %q", got, StageDataTypeFix)
	}
	if got := r.Corrections[0].AffectedRows; got != 4 {
		t.Errorf("affected_rows = %d, want 4", got)
	}
}

func TestCoerceTypesNoMatch(t *testing.T) {
	tbl := NewTable([]string{"first_name", "department"})
	tbl.AppendRow([]Cell{StringCell("Alice"), StringCell("IT")})

	l := NewLedger(testLogger())
	CoerceTypes(l, tbl)

	if l.CorrectionCount() != 0 {
		t.Errorf("corrections = %d, want 0", l.CorrectionCount())
	}
}

func TestCoerceTypesStable(t *testing.T) {
	tbl := NewTable([]string{"joining_date", "salary"})
	tbl.AppendRow([]Cell{StringCell("2021-01-15"), StringCell("72,500.50")})

	l := NewLedger(testLogger())
	CoerceTypes(l, tbl)

	day, _ := tbl.Cell(0, "joining_date")
	sal, _ := tbl.Cell(0, "salary")

	// A second pass must not change already-typed values.
	CoerceTypes(l, tbl)
	if c, _ := tbl.Cell(0, "joining_date"); !c.Equal(day) {
		t.Errorf("date changed on second pass: %v != %v", c, day)
	}
	if c, _ := tbl.Cell(0, "salary"); !c.Equal(sal) || c.Num != 72500.50 {
		t.Errorf("salary changed on second pass: %v != %v", c, sal)
	}
}

// ----------------------------------------------------------------------------
// DropDuplicates Tests
// ----------------------------------------------------------------------------

func TestDropDuplicates(t *testing.T) {
	tbl := NewTable([]string{"employee_id", "first_name"})
	tbl.AppendRow([]Cell{NumberCell(1), StringCell("Alice")})
	tbl.AppendRow([]Cell{NumberCell(2), StringCell("Bob")})
	tbl.AppendRow([]Cell{NumberCell(1), StringCell("Alice")})
	tbl.AppendRow([]Cell{NumberCell(1), StringCell("Alice")})

	l := NewLedger(testLogger())
	out := DropDuplicates(l, tbl, StageTransform)

	if out.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", out.NumRows())
	}
	// First occurrence wins; order of survivors is preserved.
	if c, _ := out.Cell(0, "employee_id"); c.Num != 1 {
		t.Errorf("row 0 = %v", c)
	}
	if c, _ := out.Cell(1, "employee_id"); c.Num != 2 {
		t.Errorf("row 1 = %v", c)
	}

	r := l.Report()
	if l.CorrectionCount() != 1 {
		t.Fatalf("corrections = %d, want 1", l.CorrectionCount())
	}
	if got := r.Corrections[0].Action; got != "Removed duplicate rows" {
		t.Errorf("correction = %q", got)
	}
	if got := r.Corrections[0].AffectedRows; got != 2 {
		t.Errorf("affected_rows = %d, want 2", got)
	}
	if got := r.Corrections[0].Stage; got != StageTransform {
		t.Errorf("stage = %q, want %q", got, StageTransform)
	}
}

func TestDropDuplicatesClean(t *testing.T) {
	tbl := NewTable([]string{"a"})
	tbl.AppendRow([]Cell{NumberCell(1)})
	tbl.AppendRow([]Cell{NumberCell(2)})

	l := NewLedger(testLogger())
	out := DropDuplicates(l, tbl, StageTransform)

	if out.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", out.NumRows())
	}
	// No correction is logged when nothing was removed.
	if l.CorrectionCount() != 0 {
		t.Errorf("corrections = %d, want 0", l.CorrectionCount())
	}
}

func TestDropDuplicatesIdempotent(t *testing.T) {
	tbl := NewTable([]string{"a", "b"})
	tbl.AppendRow([]Cell{StringCell("x"), NullCell()})
	tbl.AppendRow([]Cell{StringCell("x"), NullCell()})
	tbl.AppendRow([]Cell{StringCell("x"), StringCell("")})

	l := NewLedger(testLogger())
	once := DropDuplicates(l, tbl, StageTransform)
	twice := DropDuplicates(l, once, StageTransform)

	// Null and empty string are distinct values, so two rows survive.
	if once.NumRows() != 2 {
		t.Fatalf("rows after first pass = %d, want 2", once.NumRows())
	}
	if twice.NumRows() != once.NumRows() {
		t.Errorf("second pass removed rows: %d -> %d", once.NumRows(), twice.NumRows())
	}
	if l.CorrectionCount() != 1 {
		t.Errorf("corrections = %d, want 1", l.CorrectionCount())
	}
}

func TestDropDuplicatesTypedValues(t *testing.T) {
	day := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)

	// Rows differing only in cell kind are not duplicates.
	tbl := NewTable([]string{"v"})
	tbl.AppendRow([]Cell{StringCell("2021-01-15")})
	tbl.AppendRow([]Cell{DateCell(day)})
	tbl.AppendRow([]Cell{DateCell(day)})

	l := NewLedger(testLogger())
	out := DropDuplicates(l, tbl, StageTransform)

	if out.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", out.NumRows())
	}
}

// ----------------------------------------------------------------------------
// FillMissing Tests
// ----------------------------------------------------------------------------

func TestFillMissing(t *testing.T) {
	tbl := NewTable([]string{"department", "salary"})
	tbl.AppendRow([]Cell{StringCell("IT"), NumberCell(55000)})
	tbl.AppendRow([]Cell{NullCell(), NullCell()})
	tbl.AppendRow([]Cell{NullCell(), NumberCell(61000)})

	l := NewLedger(testLogger())
	FillMissing(l, tbl, map[string]string{
		"department": "Unknown",
		"salary":     "0",
	})

	// Exactly the null cells are replaced; populated cells stay put.
	if c, _ := tbl.Cell(0, "department"); c.Str != "IT" {
		t.Errorf("row 0 department = %v", c)
	}
	if c, _ := tbl.Cell(1, "department"); c.Str != "Unknown" {
		t.Errorf("row 1 department = %v", c)
	}
	if c, _ := tbl.Cell(2, "department"); c.Str != "Unknown" {
		t.Errorf("row 2 department = %v", c)
	}

	// Numeric-looking fill values arrive as numbers.
	if c, _ := tbl.Cell(1, "salary"); c.Kind != KindNumber || c.Num != 0 {
		t.Errorf("row 1 salary = %v, want number 0", c)
	}
	if c, _ := tbl.Cell(0, "salary"); c.Num != 55000 {
		t.Errorf("row 0 salary = %v", c)
	}

	// One correction per applied rule, affected rows = cells filled,
	// reported in sorted column order.
	if l.CorrectionCount() != 2 {
		t.Fatalf("corrections = %d, want 2", l.CorrectionCount())
	}
	r := l.Report()
	if got := r.Corrections[0].Action; got != "Filled 2 missing values in department with 'Unknown'" {
		t.Errorf("correction 0 = %q", got)
	}
	if got := r.Corrections[0].AffectedRows; got != 2 {
		t.Errorf("correction 0 affected_rows = %d, want 2", got)
	}
	if got := r.Corrections[1].Action; got != "Filled 1 missing values in salary with '0'" {
		t.Errorf("correction 1 = %q", got)
	}
	for _, c := range r.Corrections {
		if c.Stage != StageMissingValues {
			t.Errorf("stage = %q, want %q", c.Stage, StageMissingValues)
		}
	}
}

func TestFillMissingAbsentColumn(t *testing.T) {
	tbl := NewTable([]string{"a"})
	tbl.AppendRow([]Cell{NullCell()})

	l := NewLedger(testLogger())
	FillMissing(l, tbl, map[string]string{"nonexistent": "x"})

	// Rules naming absent columns are skipped without a record.
	if c, _ := tbl.Cell(0, "a"); !c.IsNull() {
		t.Errorf("cell = %v, want null", c)
	}
	if l.CorrectionCount() != 0 || l.WarningCount() != 0 {
		t.Errorf("absent column recorded %d corrections, %d warnings",
			l.CorrectionCount(), l.WarningCount())
	}
}

func TestFillMissingNothingToFill(t *testing.T) {
	tbl := NewTable([]string{"a"})
	tbl.AppendRow([]Cell{StringCell("x")})

	l := NewLedger(testLogger())
	FillMissing(l, tbl, map[string]string{"a": "y"})

	if c, _ := tbl.Cell(0, "a"); c.Str != "x" {
		t.Errorf("cell = %v, want x", c)
	}
	if l.CorrectionCount() != 0 {
		t.Errorf("corrections = %d, want 0", l.CorrectionCount())
	}
}

func TestFillMissingCountProperty(t *testing.T) {
	// The affected-rows count always equals the number of nulls going in.
	for _, k := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("nulls=%d", k), func(t *testing.T) {
			tbl := NewTable([]string{"v"})
			for i := 0; i < k; i++ {
				tbl.AppendRow([]Cell{NullCell()})
			}
			for i := 0; i < 3; i++ {
				tbl.AppendRow([]Cell{StringCell("kept")})
			}

			l := NewLedger(testLogger())
			FillMissing(l, tbl, map[string]string{"v": "filled"})

			if k == 0 {
				if l.CorrectionCount() != 0 {
					t.Errorf("corrections = %d, want 0", l.CorrectionCount())
				}
				return
			}
			r := l.Report()
			if len(r.Corrections) != 1 || r.Corrections[0].AffectedRows != k {
				t.Errorf("corrections = %+v, want one with affected_rows=%d", r.Corrections, k)
			}
			for i := 0; i < tbl.NumRows(); i++ {
				if c, _ := tbl.Cell(i, "v"); c.IsNull() {
					t.Errorf("row %d still null", i)
				}
			}
		})
	}
}
