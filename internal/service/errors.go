package service

import (
	"errors"
	"fmt"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrBatchNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "batch")
}

// ErrHeaderMismatch carries the header validator message unchanged.
type ErrHeaderMismatch struct {
	error
}

func NewErrHeaderMismatch(message string) *ErrHeaderMismatch {
	return &ErrHeaderMismatch{errors.New(message)}
}

type ErrInvalidUpload struct {
	error
}

func NewErrInvalidUpload(message string) *ErrInvalidUpload {
	return &ErrInvalidUpload{fmt.Errorf("invalid upload: %s", message)}
}

func NewErrUnknownBatchType(t model.BatchType) *ErrInvalidUpload {
	return NewErrInvalidUpload(fmt.Sprintf("unknown upload type %q", t))
}

func NewErrUnsupportedFormat(format tabular.Format, t model.BatchType) *ErrInvalidUpload {
	return NewErrInvalidUpload(fmt.Sprintf("%s files are not accepted for %s uploads", format, t))
}

// ErrNoValidRows is returned together with the rejected batch when every row was
// skipped.
type ErrNoValidRows struct {
	error
	BatchID uuid.UUID
}

func NewErrNoValidRows(batchID uuid.UUID) *ErrNoValidRows {
	return &ErrNoValidRows{error: errors.New(ReasonNoValidRows), BatchID: batchID}
}

type ErrReportNotAvailable struct {
	error
}

func NewErrReportNotAvailable(batchID uuid.UUID) *ErrReportNotAvailable {
	return &ErrReportNotAvailable{fmt.Errorf("batch %s has no error report", batchID)}
}
