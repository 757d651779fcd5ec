package store

import (
	"context"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderStatus interface {
	ListByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]model.OrderLineStatus, error)
	Upsert(ctx context.Context, statuses []model.OrderLineStatus) error
}

type orderStatusStore struct {
	db *gorm.DB
}

func NewOrderStatusStore(db *gorm.DB) OrderStatus {
	return &orderStatusStore{db: db}
}

func (o *orderStatusStore) ListByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]model.OrderLineStatus, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	var statuses []model.OrderLineStatus
	if err := getDB(ctx, o.db).Where("order_id IN ?", orderIDs).Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// Upsert is keyed by (order_id, part_number). Callers decide whether an update is newer.
func (o *orderStatusStore) Upsert(ctx context.Context, statuses []model.OrderLineStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	for i := range statuses {
		if statuses[i].ID == uuid.Nil {
			statuses[i].ID = uuid.New()
		}
	}

	return getDB(ctx, o.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "part_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_number",
			"ordered_quantity",
			"fulfilled_quantity",
			"backordered_quantity",
			"status",
			"status_date",
			"notes",
			"source_batch_id",
			"updated_at",
		}),
	}).Create(&statuses).Error
}
