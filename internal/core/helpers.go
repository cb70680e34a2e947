package core

import "strings"

// toDBColumnName converts a canonical column name into a safe SQL
// identifier: lowercased, with any character outside [a-z0-9_] replaced
// by an underscore. Names that would start with a digit get a "c_"
// prefix, and an empty result falls back to "col".
func toDBColumnName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	s := b.String()
	if s == "" {
		return "col"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "c_" + s
	}
	return s
}

// toDBColumnNames converts multiple column names at once.
func toDBColumnNames(cols []string) []string {
	result := make([]string, len(cols))
	for i, col := range cols {
		result[i] = toDBColumnName(col)
	}
	return result
}
