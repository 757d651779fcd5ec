package model

import (
	"time"

	"github.com/google/uuid"
)

type BatchType string

const (
	BatchTypePartsAftermarket BatchType = "parts_aftermarket"
	BatchTypePartsGenuine     BatchType = "parts_genuine"
	BatchTypeOrderStatus      BatchType = "order_status"
	BatchTypeSupersession     BatchType = "supersession"
)

var BatchTypes = []BatchType{
	BatchTypePartsAftermarket,
	BatchTypePartsGenuine,
	BatchTypeOrderStatus,
	BatchTypeSupersession,
}

// IsCatalog is true for the two catalog channels.
func (t BatchType) IsCatalog() bool {
	return t == BatchTypePartsAftermarket || t == BatchTypePartsGenuine
}

func (t BatchType) Valid() bool {
	for _, bt := range BatchTypes {
		if bt == t {
			return true
		}
	}
	return false
}

type BatchStatus string

// A batch starts PENDING and ends in exactly one of the other two.
const (
	BatchStatusPending  BatchStatus = "PENDING"
	BatchStatusRejected BatchStatus = "REJECTED"
	BatchStatusApplied  BatchStatus = "APPLIED"
)

type Batch struct {
	ID              uuid.UUID   `gorm:"primaryKey;type:uuid" json:"id"`
	Type            BatchType   `gorm:"type:varchar(32);not null;index" json:"type"`
	Filename        string      `gorm:"not null" json:"filename"`
	UploadedBy      string      `gorm:"not null" json:"uploaded_by"`
	Status          BatchStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	RowCount        int         `gorm:"not null" json:"row_count"`
	AppliedCount    int         `json:"applied_count"`
	RejectedCount   int         `json:"rejected_count"`
	RejectReason    *string     `json:"reject_reason,omitempty"`
	ErrorReportPath *string     `json:"error_report_path,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	FinalizedAt     *time.Time  `json:"finalized_at,omitempty"`
}

type BatchList []Batch

// BatchOutcome carries the terminal state of a batch.
type BatchOutcome struct {
	Status          BatchStatus
	AppliedCount    int
	RejectedCount   int
	RejectReason    *string
	ErrorReportPath *string
}

// StagedRow is a raw input row kept alongside its batch.
type StagedRow struct {
	ID        uuid.UUID                     `gorm:"primaryKey;type:uuid"`
	BatchID   uuid.UUID                     `gorm:"type:uuid;not null;index"`
	RowNumber int                           `gorm:"not null"`
	Data      *JSONField[map[string]string] `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}
