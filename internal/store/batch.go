package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const stagedRowsInsertSize = 500

type Batch interface {
	Create(ctx context.Context, batch model.Batch) (*model.Batch, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	List(ctx context.Context, filter *BatchQueryFilter, opts *BatchQueryOptions) (model.BatchList, error)
	StageRows(ctx context.Context, rows []model.StagedRow) error
	ListStagedRows(ctx context.Context, batchID uuid.UUID) ([]model.StagedRow, error)
	Finalize(ctx context.Context, id uuid.UUID, outcome model.BatchOutcome) (*model.Batch, error)
}

type batchStore struct {
	db *gorm.DB
}

func NewBatchStore(db *gorm.DB) Batch {
	return &batchStore{db: db}
}

func (b *batchStore) Create(ctx context.Context, batch model.Batch) (*model.Batch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if batch.Status == "" {
		batch.Status = model.BatchStatusPending
	}

	if err := getDB(ctx, b.db).Create(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &batch, nil
}

func (b *batchStore) Get(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	batch := model.Batch{}
	if err := getDB(ctx, b.db).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (b *batchStore) List(ctx context.Context, filter *BatchQueryFilter, opts *BatchQueryOptions) (model.BatchList, error) {
	var batches model.BatchList
	tx := getDB(ctx, b.db).Model(&batches)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (b *batchStore) StageRows(ctx context.Context, rows []model.StagedRow) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return getDB(ctx, b.db).CreateInBatches(&rows, stagedRowsInsertSize).Error
}

func (b *batchStore) ListStagedRows(ctx context.Context, batchID uuid.UUID) ([]model.StagedRow, error) {
	var rows []model.StagedRow
	if err := getDB(ctx, b.db).Where("batch_id = ?", batchID).Order("row_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Finalize moves a pending batch to a terminal status. A batch that already left
// PENDING is never touched again.
func (b *batchStore) Finalize(ctx context.Context, id uuid.UUID, outcome model.BatchOutcome) (*model.Batch, error) {
	if outcome.Status != model.BatchStatusApplied && outcome.Status != model.BatchStatusRejected {
		return nil, fmt.Errorf("batch %s cannot be finalized as %q", id, outcome.Status)
	}

	result := getDB(ctx, b.db).Model(&model.Batch{}).
		Where("id = ? AND status = ?", id, model.BatchStatusPending).
		Updates(map[string]any{
			"status":            outcome.Status,
			"applied_count":     outcome.AppliedCount,
			"rejected_count":    outcome.RejectedCount,
			"reject_reason":     outcome.RejectReason,
			"error_report_path": outcome.ErrorReportPath,
			"finalized_at":      time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := b.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrBatchFinalized
	}

	return b.Get(ctx, id)
}
