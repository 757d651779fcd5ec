package model

type IngestStats struct {
	// BatchesByStatus counts batches by lifecycle status.
	BatchesByStatus map[BatchStatus]int
	// ActivePartsByType counts active catalog parts by part type.
	ActivePartsByType map[PartType]int
	// Supersessions is the number of stored supersession edges.
	Supersessions int
}

type StatusCount struct {
	Status BatchStatus
	Total  int
}

type PartTypeCount struct {
	PartType PartType
	Total    int
}

func NewIngestStats(batches []StatusCount, parts []PartTypeCount, supersessions int) IngestStats {
	stats := IngestStats{
		BatchesByStatus:   make(map[BatchStatus]int, len(batches)),
		ActivePartsByType: make(map[PartType]int, len(parts)),
		Supersessions:     supersessions,
	}
	for _, b := range batches {
		stats.BatchesByStatus[b.Status] += b.Total
	}
	for _, p := range parts {
		stats.ActivePartsByType[p.PartType] += p.Total
	}
	return stats
}
