package tabular

import "fmt"

type HeaderCheck struct {
	OK      bool
	Message string
}

// ValidateHeaders requires actual to match expected exactly and in order, after
// BOM stripping and trimming on both sides.
func ValidateHeaders(actual, expected []string) HeaderCheck {
	actual = normalizeHeaders(actual)
	expected = normalizeHeaders(expected)

	if len(actual) != len(expected) {
		return HeaderCheck{Message: fmt.Sprintf("Expected %d columns, received %d.", len(expected), len(actual))}
	}

	for i := range expected {
		if actual[i] != expected[i] {
			return HeaderCheck{Message: fmt.Sprintf("Header mismatch at column %d: expected %q, received %q.", i+1, expected[i], actual[i])}
		}
	}

	return HeaderCheck{OK: true}
}
