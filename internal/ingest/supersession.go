package ingest

import (
	"time"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/supersession"
	"github.com/dealerportal/partsfeed/internal/tabular"
)

const ReasonCycleDetected = "Cycle detected."

func NormalizeSupersessionRows(rows []tabular.Row) []Result[model.Supersession] {
	results := make([]Result[model.Supersession], 0, len(rows))

	for _, row := range rows {
		var errs RowErrors

		oldPartNo, oldOK := errs.Required(ColOldPartNo, row.Get(ColOldPartNo))
		newPartNo, newOK := errs.Required(ColNewPartNo, row.Get(ColNewPartNo))
		if oldOK && newOK && oldPartNo == newPartNo {
			errs.Add("%s and %s cannot match.", ColOldPartNo, ColNewPartNo)
		}

		// an unreadable effective date is dropped, not reported
		var effective *time.Time
		if t, err := ParseDate(row.Get(ColEffectiveDate)); err == nil {
			effective = &t
		}

		results = append(results, Result[model.Supersession]{
			Row: row,
			Record: model.Supersession{
				OldPartNo:     oldPartNo,
				NewPartNo:     newPartNo,
				Reason:        OptionalText(row.Get(ColReason)),
				EffectiveDate: effective,
			},
			Errors: errs,
		})
	}

	return results
}

// MarkCycles runs cycle detection over the rows that passed field validation, in file
// order, and flags the rows that would close a cycle. It returns how many were flagged.
func MarkCycles(results []Result[model.Supersession], existing []model.Supersession) int {
	persisted := make([]supersession.Edge, 0, len(existing))
	for _, e := range existing {
		persisted = append(persisted, supersession.Edge{OldPartNo: e.OldPartNo, NewPartNo: e.NewPartNo})
	}

	candidates := make([]supersession.Edge, 0, len(results))
	positions := make([]int, 0, len(results))
	for i, r := range results {
		if !r.Valid() {
			continue
		}
		candidates = append(candidates, supersession.Edge{OldPartNo: r.Record.OldPartNo, NewPartNo: r.Record.NewPartNo})
		positions = append(positions, i)
	}

	rejected := supersession.DetectCycles(persisted, candidates)
	for idx := range rejected {
		results[positions[idx]].Errors.Add(ReasonCycleDetected)
	}

	return len(rejected)
}
