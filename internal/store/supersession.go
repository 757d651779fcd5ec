package store

import (
	"context"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Supersession interface {
	List(ctx context.Context) ([]model.Supersession, error)
	Upsert(ctx context.Context, edges []model.Supersession) error
}

type supersessionStore struct {
	db *gorm.DB
}

func NewSupersessionStore(db *gorm.DB) Supersession {
	return &supersessionStore{db: db}
}

func (s *supersessionStore) List(ctx context.Context) ([]model.Supersession, error) {
	var edges []model.Supersession
	if err := getDB(ctx, s.db).Order("old_part_no").Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// Upsert keys edges by the old part number.
func (s *supersessionStore) Upsert(ctx context.Context, edges []model.Supersession) error {
	if len(edges) == 0 {
		return nil
	}
	for i := range edges {
		if edges[i].ID == uuid.Nil {
			edges[i].ID = uuid.New()
		}
	}

	return getDB(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "old_part_no"}},
		DoUpdates: clause.AssignmentColumns([]string{"new_part_no", "reason", "effective_date", "updated_at"}),
	}).Create(&edges).Error
}
