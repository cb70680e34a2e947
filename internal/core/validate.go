package core

// validate.go provides pre-flight checks for source files and freshly
// extracted tables. Neither check mutates anything, and neither aborts
// the run: a missing file is a ledger error, a shapeless table a
// warning, and in both cases only the affected source is dropped.

import (
	"fmt"
	"os"
	"strings"
)

// ValidateFileExists checks that a source file is present before
// extraction. Records a ledger error and returns false when it is not.
func ValidateFileExists(ledger *Ledger, path string) bool {
	if _, err := os.Stat(path); err != nil {
		ledger.Error(
			StageValidation,
			fmt.Sprintf("File not found: %s", path),
			"This file is required for processing",
			err,
		)
		return false
	}
	return true
}

// ValidateTable checks an extracted table's basic shape. A nil table or
// one with no rows or no columns draws a single warning naming every
// issue and fails validation.
func ValidateTable(ledger *Ledger, t *Table, source string) bool {
	var issues []string

	if t == nil {
		issues = append(issues, "table is missing")
	} else {
		if t.NumCols() == 0 {
			issues = append(issues, "table has no columns")
		}
		if t.NumRows() == 0 {
			issues = append(issues, "table has no rows")
		}
	}

	if len(issues) > 0 {
		ledger.Warning(source, fmt.Sprintf("Issues: %s", strings.Join(issues, ", ")))
		return false
	}

	return true
}
