package sample

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/JonMunkholm/tabfuse/internal/runfile"
	"github.com/JonMunkholm/tabfuse/internal/tabfile"
)

// ---------------------------------------------------------------
// Generate
// ---------------------------------------------------------------

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(dir); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	tests := []struct {
		file    string
		columns int
		rows    int
		first   string
	}{
		{"dataset_1.csv", 10, 7, "emp_id"},
		{"dataset_2.csv", 10, 6, "employee_id"},
		{"input_data.xlsx", 10, 4, "emp_id"},
		{"sample_employee_data.csv", 10, 10, "emp_id"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			grid, err := tabfile.Read(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if len(grid.Header) != tt.columns {
				t.Errorf("header has %d columns, want %d", len(grid.Header), tt.columns)
			}
			if grid.Header[0] != tt.first {
				t.Errorf("first column = %q, want %q", grid.Header[0], tt.first)
			}
			if len(grid.Records) != tt.rows {
				t.Errorf("got %d records, want %d", len(grid.Records), tt.rows)
			}
		})
	}
}

func TestGenerateSeedsDuplicateRow(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(dir); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	grid, err := tabfile.Read(filepath.Join(dir, "dataset_1.csv"))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	// Rows 5 and 6 are the seeded exact duplicate the demo dedupes.
	if !reflect.DeepEqual(grid.Records[4], grid.Records[5]) {
		t.Errorf("records 5 and 6 differ:\n  %v\n  %v", grid.Records[4], grid.Records[5])
	}
}

func TestGeneratePreservesMessyValues(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(dir); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	abbrev, err := tabfile.Read(filepath.Join(dir, "dataset_1.csv"))
	if err != nil {
		t.Fatalf("Read dataset_1.csv: %v", err)
	}
	if got := abbrev.Records[0][6]; got != "$75,000.00" {
		t.Errorf("currency salary = %q, want %q", got, "$75,000.00")
	}
	if got := abbrev.Records[2][3]; got != "1" {
		t.Errorf("numeric gender code = %q, want %q", got, "1")
	}
	if got := abbrev.Records[0][4]; got != "03/14/85" {
		t.Errorf("two-digit-year date = %q, want %q", got, "03/14/85")
	}

	standard, err := tabfile.Read(filepath.Join(dir, "dataset_2.csv"))
	if err != nil {
		t.Fatalf("Read dataset_2.csv: %v", err)
	}
	if got := standard.Records[4][6]; got != `="59000"` {
		t.Errorf("formula-quoted salary = %q, want %q", got, `="59000"`)
	}
	if got := standard.Records[2][6]; got != "N/A" {
		t.Errorf("placeholder salary = %q, want %q", got, "N/A")
	}

	mixed, err := tabfile.Read(filepath.Join(dir, "input_data.xlsx"))
	if err != nil {
		t.Fatalf("Read input_data.xlsx: %v", err)
	}
	if got := mixed.Records[3][1]; got != "" {
		t.Errorf("missing first name = %q, want empty", got)
	}
	if got := mixed.Records[3][2]; got != "Xu" {
		t.Errorf("cell after gap = %q, want %q", got, "Xu")
	}
}

// ---------------------------------------------------------------
// WriteRunFile
// ---------------------------------------------------------------

func TestWriteRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo", RunFileName)
	if err := WriteRunFile(path); err != nil {
		t.Fatalf("WriteRunFile returned error: %v", err)
	}

	rf, err := runfile.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if rf.Output != "consolidated_all_sources.csv" {
		t.Errorf("Output = %q, want consolidated_all_sources.csv", rf.Output)
	}
	if len(rf.Sources) != 4 {
		t.Fatalf("got %d sources, want 4", len(rf.Sources))
	}
	for _, src := range rf.Sources {
		if src.File == "" {
			t.Errorf("source %s: file not resolved from layout", src.Name)
		}
		if len(src.Mapping) == 0 {
			t.Errorf("source %s: mapping not resolved from layout", src.Name)
		}
	}

	if !rf.Options.RemoveDuplicates {
		t.Error("RemoveDuplicates = false, want true")
	}
	if want := []string{"date_of_birth", "hire_date"}; !reflect.DeepEqual(rf.Options.DateColumns, want) {
		t.Errorf("DateColumns = %v, want %v", rf.Options.DateColumns, want)
	}
	if got := rf.Options.FillMissing["gender"]; got != "Unknown" {
		t.Errorf("FillMissing[gender] = %q, want Unknown", got)
	}
	if got := len(rf.Options.FinalColumns); got != 10 {
		t.Errorf("got %d final columns, want 10", got)
	}
	if rf.Options.FinalColumns[0] != "source" {
		t.Errorf("first final column = %q, want source", rf.Options.FinalColumns[0])
	}
}

// Every source in the demo run file must resolve to a file Generate
// actually writes, so the demo works out of one directory.
func TestRunFileMatchesGeneratedSources(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(dir); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	path := filepath.Join(dir, RunFileName)
	if err := WriteRunFile(path); err != nil {
		t.Fatalf("WriteRunFile returned error: %v", err)
	}

	rf, err := runfile.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	for _, src := range rf.Sources {
		if _, err := os.Stat(filepath.Join(dir, src.File)); err != nil {
			t.Errorf("source %s references %s: %v", src.Name, src.File, err)
		}
	}
}
