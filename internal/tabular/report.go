package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// BuildErrorReport renders the rejected rows as CSV: the uploaded columns in file
// order, then reasonColumn. Data cells are copied from the input rows.
func BuildErrorReport(headers []string, rows []RejectedRow, reasonColumn string) ([]byte, error) {
	header := make([]string, 0, len(headers)+1)
	header = append(header, headers...)
	header = append(header, reasonColumn)

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		record := make([]string, len(headers), len(headers)+1)
		copy(record, r.Row.Raw)
		records = append(records, append(record, r.Reason))
	}

	return RenderCSV(header, records)
}

// RenderCSV writes a header line followed by records.
func RenderCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}

	return buf.Bytes(), nil
}
