package service

import (
	"context"
	"errors"
	"io"

	"github.com/dealerportal/partsfeed/internal/ingest"
	"github.com/dealerportal/partsfeed/internal/store"
	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/dealerportal/partsfeed/pkg/reports"
	"github.com/google/uuid"
)

type BatchFilter struct {
	Type       model.BatchType
	Status     model.BatchStatus
	UploadedBy string
	Limit      int
}

func (u *UploadService) GetBatch(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	batch, err := u.store.Batch().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrBatchNotFound(id)
		}
		return nil, err
	}
	return batch, nil
}

// ListBatches returns batches newest first.
func (u *UploadService) ListBatches(ctx context.Context, filter BatchFilter) (model.BatchList, error) {
	f := store.NewBatchQueryFilter()
	if filter.Type != "" {
		f = f.ByType(filter.Type)
	}
	if filter.Status != "" {
		f = f.ByStatus(filter.Status)
	}
	if filter.UploadedBy != "" {
		f = f.ByUploader(filter.UploadedBy)
	}

	opts := store.NewBatchQueryOptions().WithNewestFirst()
	if filter.Limit > 0 {
		opts = opts.WithLimit(filter.Limit)
	}

	return u.store.Batch().List(ctx, f, opts)
}

// ErrorReport opens the rejected-rows report of a batch. The caller closes the reader.
func (u *UploadService) ErrorReport(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	batch, err := u.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.ErrorReportPath == nil {
		return nil, NewErrReportNotAvailable(id)
	}

	rc, err := u.reports.Get(ctx, *batch.ErrorReportPath)
	if err != nil {
		if errors.Is(err, reports.ErrReportNotFound) {
			return nil, NewErrReportNotAvailable(id)
		}
		return nil, err
	}
	return rc, nil
}

func (u *UploadService) Statistics(ctx context.Context) (model.IngestStats, error) {
	return u.store.Statistics(ctx)
}

// Template renders the header row expected for a CSV upload of type t.
func Template(t model.BatchType) ([]byte, error) {
	if !t.Valid() {
		return nil, NewErrUnknownBatchType(t)
	}
	headers, err := ingest.HeadersFor(t)
	if err != nil {
		return nil, err
	}
	return tabular.RenderCSV(headers, nil)
}
