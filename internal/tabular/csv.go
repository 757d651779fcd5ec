package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
)

// ParseCSV reads a header row followed by data rows. A leading UTF-8 BOM is dropped,
// header names are trimmed and rows made only of empty cells are skipped.
// Every record must have as many cells as the header; a ragged row makes the file
// unreadable rather than being padded or cut.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(stripUTF8BOM(bufio.NewReader(r)))

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewErrNoRows(FormatCSV)
		}
		return nil, NewErrUnreadable(FormatCSV, err)
	}

	table := &Table{Headers: normalizeHeaders(header)}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, NewErrUnreadable(FormatCSV, err)
		}

		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, newRow(len(table.Rows)+1, line, table.Headers, record))
	}

	if len(table.Rows) == 0 {
		return nil, NewErrNoRows(FormatCSV)
	}

	return table, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
