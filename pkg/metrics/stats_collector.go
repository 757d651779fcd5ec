package metrics

import (
	"context"
	"fmt"

	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// StatisticsSource is satisfied by store.Store.
type StatisticsSource interface {
	Statistics(ctx context.Context) (model.IngestStats, error)
}

type ingestStatsCollector struct {
	source            StatisticsSource
	batchesByStatus   *prometheus.Desc
	activePartsByType *prometheus.Desc
	supersessions     *prometheus.Desc
}

func NewIngestStatsCollector(s StatisticsSource) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_store_%s", partsfeed, name)
	}

	return &ingestStatsCollector{
		source: s,
		batchesByStatus: prometheus.NewDesc(
			fqName("batches"),
			"Stored batches by status.",
			[]string{"status"},
			prometheus.Labels{},
		),
		activePartsByType: prometheus.NewDesc(
			fqName("active_parts"),
			"Active catalog parts by part type.",
			[]string{"part_type"},
			prometheus.Labels{},
		),
		supersessions: prometheus.NewDesc(
			fqName("supersessions"),
			"Stored supersession edges.",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *ingestStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.batchesByStatus
	ch <- c.activePartsByType
	ch <- c.supersessions
}

// Collect implements Collector.
func (c *ingestStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.source.Statistics(context.Background())
	if err != nil {
		zap.S().Named("stats_collector").Errorf("failed to collect ingest statistics: %s", err)
		return
	}

	for status, total := range stats.BatchesByStatus {
		ch <- prometheus.MustNewConstMetric(c.batchesByStatus, prometheus.GaugeValue, float64(total), string(status))
	}
	for partType, total := range stats.ActivePartsByType {
		ch <- prometheus.MustNewConstMetric(c.activePartsByType, prometheus.GaugeValue, float64(total), string(partType))
	}
	ch <- prometheus.MustNewConstMetric(c.supersessions, prometheus.GaugeValue, float64(stats.Supersessions))
}
