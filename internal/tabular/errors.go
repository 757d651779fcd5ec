package tabular

import (
	"fmt"
	"strings"
)

type ErrNoRows struct {
	error
}

func NewErrNoRows(format Format) *ErrNoRows {
	return &ErrNoRows{fmt.Errorf("%s contains no rows.", strings.ToUpper(string(format)))}
}

type ErrUnreadable struct {
	error
}

func NewErrUnreadable(format Format, err error) *ErrUnreadable {
	return &ErrUnreadable{fmt.Errorf("failed to read %s file: %w", strings.ToUpper(string(format)), err)}
}

func (e *ErrUnreadable) Unwrap() error {
	return e.error
}

type ErrMissingColumns struct {
	error
	Columns []string
}

func NewErrMissingColumns(format Format, columns []string) *ErrMissingColumns {
	return &ErrMissingColumns{
		error:   fmt.Errorf("%s is missing required columns: %s", strings.ToUpper(string(format)), strings.Join(columns, ", ")),
		Columns: columns,
	}
}
