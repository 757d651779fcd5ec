package tabular

import (
	"io"

	"github.com/thoas/go-funk"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ParseXLSX reads the first sheet of a workbook. The first sheet row holds the headers;
// cells missing from a row default to the empty string.
// Every name in required must appear among the headers.
func ParseXLSX(r io.Reader, required []string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewErrUnreadable(FormatXLSX, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Named("tabular").Warnf("failed to close workbook: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewErrNoRows(FormatXLSX)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, NewErrUnreadable(FormatXLSX, err)
	}
	if len(rows) == 0 {
		return nil, NewErrNoRows(FormatXLSX)
	}

	table := &Table{Headers: normalizeHeaders(rows[0])}
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		// sheet rows are 1-based and the header occupies the first one
		table.Rows = append(table.Rows, newRow(len(table.Rows)+1, i+2, table.Headers, cells))
	}

	if len(table.Rows) == 0 {
		return nil, NewErrNoRows(FormatXLSX)
	}

	missing := make([]string, 0)
	for _, column := range required {
		if !funk.ContainsString(table.Headers, column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, NewErrMissingColumns(FormatXLSX, missing)
	}

	return table, nil
}
