package reports

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

var ErrReportNotFound = errors.New("report not found")

// Store keeps rejected-row reports. Put returns the location recorded on the batch.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, location string) (io.ReadCloser, error)
	Type() string
}

// ReportName is the object name of the error report of a batch.
func ReportName(batchID uuid.UUID) string {
	return fmt.Sprintf("%s-errors.csv", batchID)
}
