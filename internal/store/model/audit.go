package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditActionUploadParts        = "upload.parts"
	AuditActionUploadOrderStatus  = "upload.order_status"
	AuditActionUploadSupersession = "upload.supersession"
)

type AuditLog struct {
	ID         uuid.UUID                  `gorm:"primaryKey;type:uuid"`
	Actor      string                     `gorm:"not null;index"`
	Action     string                     `gorm:"not null;index"`
	EntityType string                     `gorm:"not null"`
	EntityID   string                     `gorm:"not null"`
	Metadata   *JSONField[map[string]any] `gorm:"type:jsonb"`
	CreatedAt  time.Time
}
