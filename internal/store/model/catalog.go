package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PartType string

const (
	PartTypeAftermarket PartType = "AFTERMARKET"
	PartTypeGenuine     PartType = "GENUINE"
	PartTypeBranded     PartType = "BRANDED"
)

var PartTypes = []PartType{PartTypeAftermarket, PartTypeGenuine, PartTypeBranded}

// ParsePartType matches case-insensitively against the known part types.
func ParsePartType(s string) (PartType, bool) {
	for _, pt := range PartTypes {
		if strings.EqualFold(string(pt), strings.TrimSpace(s)) {
			return pt, true
		}
	}
	return "", false
}

// CatalogPart is keyed by StkNo. Parts are never deleted, only deactivated.
type CatalogPart struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	StkNo           string    `gorm:"not null;uniqueIndex"`
	Manufacturer    string    `gorm:"not null"`
	LandRoverNo     *string
	JaguarNo        *string
	PartType        PartType `gorm:"type:varchar(16);not null;index"`
	Supplier        *string
	Brand           *string
	OEM             *string         `gorm:"column:oem"`
	Description     string          `gorm:"not null"`
	FreeStock       int             `gorm:"not null"`
	TradePrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BandA           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BandB           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BandC           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BandD           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BandE           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BandF           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	MinimumPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TariffCode      *string
	CountryOfOrigin *string
	Barcode         *string
	IsActive        bool      `gorm:"not null;index"`
	LastSeenAt      time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
