package ingest

import "github.com/dealerportal/partsfeed/internal/tabular"

// Result is the outcome of normalizing one input row.
type Result[T any] struct {
	Row    tabular.Row
	Record T
	Errors RowErrors
}

func (r Result[T]) Valid() bool {
	return r.Errors.Empty()
}

// Split separates valid records from rejected rows. Both keep input order.
func Split[T any](results []Result[T]) ([]T, []tabular.RejectedRow) {
	valid := make([]T, 0, len(results))
	rejected := make([]tabular.RejectedRow, 0)

	for _, r := range results {
		if r.Valid() {
			valid = append(valid, r.Record)
			continue
		}
		rejected = append(rejected, tabular.RejectedRow{Row: r.Row, Reason: r.Errors.Reason()})
	}

	return valid, rejected
}
