package tabular

import (
	"path/filepath"
	"strings"
)

const (
	// ErrorReasonColumn is appended to every rejected-rows report.
	ErrorReasonColumn = "error_reason"

	utf8BOM = "\ufeff"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromFilename picks the spreadsheet parser for .xlsx files and CSV for everything else.
func FormatFromFilename(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Row is one data row of an uploaded file.
type Row struct {
	// Number is the 1-based position of the row among the data rows (header excluded).
	Number int
	// Line is the physical line in the source file. Spreadsheets report the sheet row.
	Line   int
	Values map[string]string
	// Raw holds the cells in source column order. Spreadsheet rows, which drop trailing
	// empty cells, are padded to the header width.
	Raw []string
}

// Get returns the trimmed value of the given column.
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Values[header])
}

type Table struct {
	Headers []string
	Rows    []Row
}

// RejectedRow pairs an input row with the joined reasons it failed.
type RejectedRow struct {
	Row    Row
	Reason string
}

func NormalizeHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, NormalizeHeader(h))
	}
	return out
}

func newRow(number, line int, headers, cells []string) Row {
	raw := make([]string, len(headers))
	copy(raw, cells)

	values := make(map[string]string, len(headers))
	for i, h := range headers {
		if _, found := values[h]; found {
			continue
		}
		values[h] = raw[i]
	}

	return Row{Number: number, Line: line, Values: values, Raw: raw}
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
