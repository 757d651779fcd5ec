package events

import (
	"encoding/json"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/google/uuid"
)

// BatchEvent is published when a batch reaches a terminal status.
type BatchEvent struct {
	BatchID       uuid.UUID         `json:"batch_id"`
	Type          model.BatchType   `json:"type"`
	Status        model.BatchStatus `json:"status"`
	Filename      string            `json:"filename"`
	UploadedBy    string            `json:"uploaded_by"`
	RowCount      int               `json:"row_count"`
	AppliedCount  int               `json:"applied_count"`
	RejectedCount int               `json:"rejected_count"`
	Skipped       int               `json:"skipped,omitempty"`
	Stale         int               `json:"stale,omitempty"`
	Deactivated   int64             `json:"deactivated,omitempty"`
	RejectReason  string            `json:"reject_reason,omitempty"`
}

func NewBatchEvent(batch model.Batch) BatchEvent {
	e := BatchEvent{
		BatchID:       batch.ID,
		Type:          batch.Type,
		Status:        batch.Status,
		Filename:      batch.Filename,
		UploadedBy:    batch.UploadedBy,
		RowCount:      batch.RowCount,
		AppliedCount:  batch.AppliedCount,
		RejectedCount: batch.RejectedCount,
	}
	if batch.RejectReason != nil {
		e.RejectReason = *batch.RejectReason
	}
	return e
}

// Kind maps the batch status to the event type.
func (e BatchEvent) Kind() string {
	if e.Status == model.BatchStatusApplied {
		return BatchAppliedKind
	}
	return BatchRejectedKind
}

func (e BatchEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
