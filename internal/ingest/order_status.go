package ingest

import (
	"strings"
	"time"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/google/uuid"
)

// OrderStatusRecord is a validated order-status row. OrderID is resolved by
// ValidateOrderReferences.
type OrderStatusRecord struct {
	OrderNumber         string
	AccountNumber       string
	PartNumber          string
	OrderedQuantity     int
	FulfilledQuantity   *int
	BackorderedQuantity *int
	Status              model.LineStatus
	StatusDate          time.Time
	Notes               *string
	OrderID             uuid.UUID
}

// LineStatus converts the record into the stored shape.
func (r OrderStatusRecord) LineStatus(batchID uuid.UUID) model.OrderLineStatus {
	return model.OrderLineStatus{
		OrderID:             r.OrderID,
		PartNumber:          r.PartNumber,
		AccountNumber:       r.AccountNumber,
		OrderedQuantity:     r.OrderedQuantity,
		FulfilledQuantity:   r.FulfilledQuantity,
		BackorderedQuantity: r.BackorderedQuantity,
		Status:              r.Status,
		StatusDate:          r.StatusDate,
		Notes:               r.Notes,
		SourceBatchID:       batchID,
	}
}

func NormalizeOrderStatusRows(rows []tabular.Row) []Result[OrderStatusRecord] {
	results := make([]Result[OrderStatusRecord], 0, len(rows))

	for _, row := range rows {
		var errs RowErrors

		orderNumber, _ := errs.Required(ColOrderNumber, row.Get(ColOrderNumber))
		accountNumber, _ := errs.Required(ColAccountNumber, row.Get(ColAccountNumber))
		partNumber, _ := errs.Required(ColPartNumber, row.Get(ColPartNumber))
		ordered, _ := errs.Integer(ColOrderedQuantity, row.Get(ColOrderedQuantity))
		fulfilled, _ := errs.OptionalInteger(ColFulfilledQuantity, row.Get(ColFulfilledQuantity))
		backordered, _ := errs.OptionalInteger(ColBackorderedQuantity, row.Get(ColBackorderedQuantity))

		var status model.LineStatus
		if rawStatus, ok := errs.Required(ColStatus, row.Get(ColStatus)); ok {
			parsed, known := model.ParseLineStatus(rawStatus)
			if !known {
				errs.Add("Status %s is invalid.", rawStatus)
			}
			status = parsed
		}

		statusDate, _ := errs.Date(ColStatusDate, row.Get(ColStatusDate))

		results = append(results, Result[OrderStatusRecord]{
			Row: row,
			Record: OrderStatusRecord{
				OrderNumber:         orderNumber,
				AccountNumber:       accountNumber,
				PartNumber:          partNumber,
				OrderedQuantity:     ordered,
				FulfilledQuantity:   fulfilled,
				BackorderedQuantity: backordered,
				Status:              status,
				StatusDate:          statusDate,
				Notes:               OptionalText(row.Get(ColNotes)),
			},
			Errors: errs,
		})
	}

	return results
}

// ReferencedOrderNumbers returns the distinct order numbers of the rows that passed
// field validation, in first-seen order.
func ReferencedOrderNumbers(results []Result[OrderStatusRecord]) []string {
	seen := make(map[string]struct{})
	numbers := make([]string, 0)
	for _, r := range results {
		if !r.Valid() {
			continue
		}
		if _, found := seen[r.Record.OrderNumber]; found {
			continue
		}
		seen[r.Record.OrderNumber] = struct{}{}
		numbers = append(numbers, r.Record.OrderNumber)
	}
	return numbers
}

type orderRef struct {
	id            uuid.UUID
	accountNumber string
	parts         map[string]struct{}
}

// ValidateOrderReferences checks rows that passed field validation against the
// orders loaded for them: the order must exist, the account must match and the part
// must be one of the order's items. Failures are appended to the row errors.
func ValidateOrderReferences(results []Result[OrderStatusRecord], orders []model.Order) {
	refs := make(map[string]orderRef, len(orders))
	for _, o := range orders {
		parts := make(map[string]struct{}, len(o.Items))
		for _, item := range o.Items {
			parts[item.PartNumber] = struct{}{}
		}
		refs[o.OrderNumber] = orderRef{id: o.ID, accountNumber: o.AccountNumber, parts: parts}
	}

	for i := range results {
		r := &results[i]
		if !r.Valid() {
			continue
		}

		ref, found := refs[r.Record.OrderNumber]
		if !found {
			r.Errors.Add("Order %s not found.", r.Record.OrderNumber)
			continue
		}
		if strings.TrimSpace(ref.accountNumber) != r.Record.AccountNumber {
			r.Errors.Add("Account Number %s does not match order.", r.Record.AccountNumber)
		}
		if _, onOrder := ref.parts[r.Record.PartNumber]; !onOrder {
			r.Errors.Add("Part %s not found on order.", r.Record.PartNumber)
		}
		r.Record.OrderID = ref.id
	}
}
