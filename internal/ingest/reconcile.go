package ingest

import (
	"github.com/dealerportal/partsfeed/internal/store/model"
)

// DefaultChunkSize bounds the number of records written per transaction.
const DefaultChunkSize = 200

// DedupeByKey keeps the last record for every key. Keys keep the position of their
// first occurrence.
func DedupeByKey[T any, K comparable](records []T, key func(T) K) []T {
	positions := make(map[K]int, len(records))
	out := make([]T, 0, len(records))

	for _, r := range records {
		k := key(r)
		if pos, found := positions[k]; found {
			out[pos] = r
			continue
		}
		positions[k] = len(out)
		out = append(out, r)
	}

	return out
}

// Chunk splits records into consecutive slices of at most size elements.
func Chunk[T any](records []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([][]T, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// FilterNewer drops updates whose status date is not strictly after the stored one.
// It returns the updates to write and the number dropped.
func FilterNewer(updates, stored []model.OrderLineStatus) ([]model.OrderLineStatus, int) {
	current := make(map[model.LineKey]model.OrderLineStatus, len(stored))
	for _, s := range stored {
		current[s.Key()] = s
	}

	fresh := make([]model.OrderLineStatus, 0, len(updates))
	stale := 0
	for _, u := range updates {
		if existing, found := current[u.Key()]; found && !u.StatusDate.After(existing.StatusDate) {
			stale++
			continue
		}
		fresh = append(fresh, u)
	}

	return fresh, stale
}

// SweepKeys returns the candidates that are not part of the upload.
func SweepKeys(candidates []string, uploaded []model.CatalogPart) []string {
	present := make(map[string]struct{}, len(uploaded))
	for _, p := range uploaded {
		present[p.StkNo] = struct{}{}
	}

	keys := make([]string, 0)
	for _, c := range candidates {
		if _, found := present[c]; !found {
			keys = append(keys, c)
		}
	}
	return keys
}
