package store

import (
	"context"
	"errors"
	"time"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var catalogUpsertColumns = []string{
	"manufacturer",
	"land_rover_no",
	"jaguar_no",
	"part_type",
	"supplier",
	"brand",
	"oem",
	"description",
	"free_stock",
	"trade_price",
	"band_a",
	"band_b",
	"band_c",
	"band_d",
	"band_e",
	"band_f",
	"minimum_price",
	"tariff_code",
	"country_of_origin",
	"barcode",
	"is_active",
	"last_seen_at",
	"updated_at",
}

type Catalog interface {
	Upsert(ctx context.Context, parts []model.CatalogPart) error
	Get(ctx context.Context, stkNo string) (*model.CatalogPart, error)
	ListSweepCandidates(ctx context.Context, types []model.PartType) ([]string, error)
	Deactivate(ctx context.Context, stkNos []string) (int64, error)
}

type catalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) Catalog {
	return &catalogStore{db: db}
}

// Upsert inserts parts or overwrites the stored part with the same stock number.
func (c *catalogStore) Upsert(ctx context.Context, parts []model.CatalogPart) error {
	if len(parts) == 0 {
		return nil
	}
	for i := range parts {
		if parts[i].ID == uuid.Nil {
			parts[i].ID = uuid.New()
		}
	}

	return getDB(ctx, c.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stk_no"}},
		DoUpdates: clause.AssignmentColumns(catalogUpsertColumns),
	}).Create(&parts).Error
}

func (c *catalogStore) Get(ctx context.Context, stkNo string) (*model.CatalogPart, error) {
	part := model.CatalogPart{}
	if err := getDB(ctx, c.db).First(&part, "stk_no = ?", stkNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &part, nil
}

// ListSweepCandidates returns the stock numbers of active parts of the given types that
// no order item refers to.
func (c *catalogStore) ListSweepCandidates(ctx context.Context, types []model.PartType) ([]string, error) {
	if len(types) == 0 {
		return nil, nil
	}

	db := getDB(ctx, c.db)
	referenced := db.Session(&gorm.Session{NewDB: true}).Model(&model.OrderItem{}).Select("part_number")

	var keys []string
	err := db.Model(&model.CatalogPart{}).
		Where("is_active = ?", true).
		Where("part_type IN ?", types).
		Where("stk_no NOT IN (?)", referenced).
		Order("stk_no").
		Pluck("stk_no", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Deactivate flags parts as inactive. Rows are never deleted.
func (c *catalogStore) Deactivate(ctx context.Context, stkNos []string) (int64, error) {
	if len(stkNos) == 0 {
		return 0, nil
	}

	result := getDB(ctx, c.db).Model(&model.CatalogPart{}).
		Where("stk_no IN ?", stkNos).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
