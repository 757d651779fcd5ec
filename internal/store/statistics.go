package store

import (
	"context"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"golang.org/x/sync/errgroup"
)

// Statistics runs the three aggregate queries concurrently.
func (s *DataStore) Statistics(ctx context.Context) (model.IngestStats, error) {
	var (
		batches       []model.StatusCount
		parts         []model.PartTypeCount
		supersessions int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return getDB(gctx, s.db).Model(&model.Batch{}).
			Select("status, COUNT(*) AS total").
			Group("status").
			Scan(&batches).Error
	})
	g.Go(func() error {
		return getDB(gctx, s.db).Model(&model.CatalogPart{}).
			Select("part_type, COUNT(*) AS total").
			Where("is_active = ?", true).
			Group("part_type").
			Scan(&parts).Error
	})
	g.Go(func() error {
		return getDB(gctx, s.db).Model(&model.Supersession{}).Count(&supersessions).Error
	})
	if err := g.Wait(); err != nil {
		return model.IngestStats{}, err
	}

	return model.NewIngestStats(batches, parts, int(supersessions)), nil
}
