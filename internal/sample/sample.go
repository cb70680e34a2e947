// Package sample writes the bundled demo source files: deliberately
// messy employee data exercising every repair the pipeline performs.
package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/tabfuse/internal/tabfile"
)

// RunFileName is the demo run definition written next to the sources.
const RunFileName = "demo.yaml"

// Generate writes the four demo source files into dir. Contents are
// fixed so demo runs are deterministic.
func Generate(dir string) error {
	for _, f := range files {
		path := filepath.Join(dir, f.name)

		var err error
		if strings.EqualFold(filepath.Ext(f.name), ".xlsx") {
			err = tabfile.WriteXLSX(path, f.header, f.records)
		} else {
			err = tabfile.WriteCSV(path, f.header, f.records)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

// WriteRunFile writes the demo run definition to path. The definition
// references the bundled layouts by name and mirrors the demo transform
// configuration.
func WriteRunFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(demoRunFile), 0o644)
}

const demoRunFile = `# Demo run: consolidates the four generated source files.
output: consolidated_all_sources.csv
sources:
  - name: source_1_abbreviated
    layout: abbreviated
  - name: source_2_standard
    layout: standard
  - name: source_3_mixed
    layout: mixed
  - name: source_4_sample
    layout: sample
transform:
  date_columns: [date_of_birth, hire_date]
  remove_duplicates: true
  fill_missing_values:
    gender: Unknown
    status: unknown
    department: Unassigned
  final_columns:
    - source
    - employee_id
    - first_name
    - last_name
    - gender
    - date_of_birth
    - hire_date
    - salary
    - department
    - age
`
