package store

import (
	"context"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Audit interface {
	Create(ctx context.Context, entry model.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error)
}

type auditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) Audit {
	return &auditStore{db: db}
}

func (a *auditStore) Create(ctx context.Context, entry model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return getDB(ctx, a.db).Create(&entry).Error
}

func (a *auditStore) ListByEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := getDB(ctx, a.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
