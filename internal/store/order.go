package store

import (
	"context"
	"errors"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	FindByNumbers(ctx context.Context, numbers []string) ([]model.Order, error)
}

type orderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) Order {
	return &orderStore{db: db}
}

func (o *orderStore) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}

	if err := getDB(ctx, o.db).Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumbers loads the orders and their items in one round trip per table.
func (o *orderStore) FindByNumbers(ctx context.Context, numbers []string) ([]model.Order, error) {
	if len(numbers) == 0 {
		return nil, nil
	}

	var orders []model.Order
	if err := getDB(ctx, o.db).Preload("Items").Where("order_number IN ?", numbers).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
