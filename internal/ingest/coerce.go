package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RowErrors collects every problem found on one row. Checks never stop early.
type RowErrors []string

func (e *RowErrors) Add(format string, args ...any) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

func (e RowErrors) Empty() bool {
	return len(e) == 0
}

// Reason joins the messages the way they appear in the error report.
func (e RowErrors) Reason() string {
	return strings.Join(e, " ")
}

func (e *RowErrors) Required(field, value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		e.Add("%s is required.", field)
		return "", false
	}
	return v, true
}

func (e *RowErrors) Integer(field, value string) (int, bool) {
	cleaned := cleanNumber(value)
	if cleaned == "" {
		e.Add("%s is required.", field)
		return 0, false
	}
	n, err := ParseInteger(cleaned)
	if err != nil {
		e.Add("%s must be an integer.", field)
		return 0, false
	}
	return n, true
}

func (e *RowErrors) Decimal(field, value string) (decimal.Decimal, bool) {
	cleaned := cleanNumber(value)
	if cleaned == "" {
		e.Add("%s is required.", field)
		return decimal.Zero, false
	}
	d, err := ParseDecimal(cleaned)
	if err != nil {
		e.Add("%s must be a number.", field)
		return decimal.Zero, false
	}
	return d, true
}

// OptionalInteger accepts a blank value as absent.
func (e *RowErrors) OptionalInteger(field, value string) (*int, bool) {
	cleaned := cleanNumber(value)
	if cleaned == "" {
		return nil, true
	}
	n, err := ParseInteger(cleaned)
	if err != nil {
		e.Add("%s must be numeric.", field)
		return nil, false
	}
	return &n, true
}

func (e *RowErrors) Date(field, value string) (time.Time, bool) {
	t, err := ParseDate(value)
	if err != nil {
		e.Add("%s is invalid.", field)
		return time.Time{}, false
	}
	return t, true
}

func cleanNumber(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
}

// ParseInteger parses a base-10 integer after dropping grouping commas.
func ParseInteger(value string) (int, error) {
	return strconv.Atoi(cleanNumber(value))
}

// ParseDecimal parses a decimal after dropping grouping commas.
func ParseDecimal(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(cleanNumber(value))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
}

var errEmptyDate = errors.New("empty date")

// ParseDate accepts ISO-8601 style timestamps and US month/day/year dates.
// Values without a zone are read as UTC.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errEmptyDate
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// OptionalText trims the value and maps blanks to nil.
func OptionalText(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}
