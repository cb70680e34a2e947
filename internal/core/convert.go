package core

// convert.go provides the value coercion heuristics for raw tabular data.
//
// These functions handle the messy reality of exported spreadsheet data:
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Currency symbols and thousand separators in numbers
//   - Spreadsheet formula prefixes (="value")
//   - Assorted missing-value tokens (NaN, NULL, N/A, ...)
//
// ParseNumber and ParseDate back the typed Cell accessors. The ToPg*
// functions convert cells for the optional PostgreSQL destination and
// return values with Valid=false for null/invalid input, letting the
// database handle NULLs appropriately.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// missing-value tokens treated as null during extraction, lowercase.
var missingTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"null": true,
	"none": true,
	"n/a":  true,
	"na":   true,
	"#n/a": true,
	"<na>": true,
}

// IsMissingToken reports whether a cleaned string denotes a missing value.
func IsMissingToken(s string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(s))]
}

// CleanCell removes common export artifacts from a cell value:
// - Trims whitespace
// - Removes spreadsheet formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return s
}

// ParseNumber extracts a float from a string.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative). Returns false for non-numeric input.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Apply negative sign if needed
	if isNegative {
		s = "-" + s
	}

	// Validate numeric format
	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseDate extracts a calendar date from a string.
// Supports multiple date formats and handles 2-digit years with pivot.
// Returns false for unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	currentYear := time.Now().Year()
	pivotYear := currentYear + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseCell converts a raw extracted string into a typed cell.
// Missing-value tokens become null and recognizable numbers become
// numeric. Everything else, dates included, stays a string until a
// rectification or transform pass requests a narrower type.
func ParseCell(raw string) Cell {
	s := CleanCell(raw)
	if IsMissingToken(s) {
		return NullCell()
	}
	if f, ok := ParseNumber(s); ok {
		return NumberCell(f)
	}
	return StringCell(s)
}

// NormalizeGender maps free-form gender markers onto {M, F, Unknown}.
// The mapping is exact after trimming and lowercasing; any value outside
// the recognized sets, including null, maps to Unknown. Never fails.
func NormalizeGender(c Cell) string {
	if c.IsNull() {
		return "Unknown"
	}

	switch strings.ToLower(strings.TrimSpace(c.Render())) {
	case "m", "mm", "male", "1":
		return "M"
	case "f", "ff", "female", "2":
		return "F"
	case "0", "unknown":
		return "Unknown"
	default:
		return "Unknown"
	}
}

// ToPgText converts a cell to pgtype.Text.
// Returns invalid for null cells and empty strings.
func ToPgText(c Cell) pgtype.Text {
	s := strings.TrimSpace(c.Render())
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate converts a cell to pgtype.Date.
// String cells go through the date layout heuristics.
func ToPgDate(c Cell) pgtype.Date {
	t, ok := c.AsDate()
	if !ok {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// ToPgNumeric converts a cell to pgtype.Numeric.
// String cells go through the numeric cleanup heuristics.
func ToPgNumeric(c Cell) pgtype.Numeric {
	f, ok := c.AsNumber()
	if !ok {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(strconv.FormatFloat(f, 'f', -1, 64)); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}
