package model

import (
	"time"

	"github.com/google/uuid"
)

// Supersession is an edge from an old part number to the part that replaces it.
// OldPartNo is unique, so a part is superseded by at most one part.
type Supersession struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	OldPartNo     string    `gorm:"not null;uniqueIndex"`
	NewPartNo     string    `gorm:"not null;index"`
	Reason        *string
	EffectiveDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
