package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is owned by the ordering side of the portal. Ingestion only reads it.
type Order struct {
	ID            uuid.UUID   `gorm:"primaryKey;type:uuid"`
	OrderNumber   string      `gorm:"not null;uniqueIndex"`
	AccountNumber string      `gorm:"not null;index"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PartNumber string    `gorm:"not null;index"`
	Quantity   int       `gorm:"not null"`
}

type LineStatus string

const (
	LineStatusOpen               LineStatus = "OPEN"
	LineStatusPartiallyFulfilled LineStatus = "PARTIALLY_FULFILLED"
	LineStatusBackordered        LineStatus = "BACKORDERED"
	LineStatusFulfilled          LineStatus = "FULFILLED"
	LineStatusCancelled          LineStatus = "CANCELLED"
)

var LineStatuses = []LineStatus{
	LineStatusOpen,
	LineStatusPartiallyFulfilled,
	LineStatusBackordered,
	LineStatusFulfilled,
	LineStatusCancelled,
}

func ParseLineStatus(s string) (LineStatus, bool) {
	for _, ls := range LineStatuses {
		if strings.EqualFold(string(ls), strings.TrimSpace(s)) {
			return ls, true
		}
	}
	return "", false
}

// OrderLineStatus is keyed by (OrderID, PartNumber).
type OrderLineStatus struct {
	ID                  uuid.UUID `gorm:"primaryKey;type:uuid"`
	OrderID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_line_status_key"`
	PartNumber          string    `gorm:"not null;uniqueIndex:idx_order_line_status_key"`
	AccountNumber       string    `gorm:"not null"`
	OrderedQuantity     int       `gorm:"not null"`
	FulfilledQuantity   *int
	BackorderedQuantity *int
	Status              LineStatus `gorm:"type:varchar(32);not null"`
	StatusDate          time.Time  `gorm:"not null"`
	Notes               *string
	SourceBatchID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LineKey identifies an order line.
type LineKey struct {
	OrderID    uuid.UUID
	PartNumber string
}

func (s OrderLineStatus) Key() LineKey {
	return LineKey{OrderID: s.OrderID, PartNumber: s.PartNumber}
}
