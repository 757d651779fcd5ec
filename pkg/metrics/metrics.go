package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	partsfeed = "partsfeed"

	// Batch metrics
	batchesTotal     = "batches_total"
	rowsTotal        = "rows_total"
	applyDuration    = "apply_duration_seconds"
	partsDeactivated = "parts_deactivated_total"

	// Labels
	batchTypeLabel   = "type"
	batchStatusLabel = "status"
	rowOutcomeLabel  = "outcome"

	// Row outcomes
	RowOutcomeApplied  = "applied"
	RowOutcomeRejected = "rejected"
	RowOutcomeSkipped  = "skipped"
	RowOutcomeStale    = "stale"
)

var batchesTotalLabels = []string{
	batchTypeLabel,
	batchStatusLabel,
}

var rowsTotalLabels = []string{
	batchTypeLabel,
	rowOutcomeLabel,
}

/**
* Metrics definition
**/
var batchesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: partsfeed,
		Name:      batchesTotal,
		Help:      "number of finalized upload batches",
	},
	batchesTotalLabels,
)

var rowsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: partsfeed,
		Name:      rowsTotal,
		Help:      "number of uploaded rows by outcome",
	},
	rowsTotalLabels,
)

var applyDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: partsfeed,
		Name:      applyDuration,
		Help:      "time spent writing a validated batch",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	},
	[]string{batchTypeLabel},
)

var partsDeactivatedMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: partsfeed,
		Name:      partsDeactivated,
		Help:      "number of catalog parts deactivated by the sweep",
	},
)

func IncreaseBatchesTotalMetric(batchType, status string) {
	labels := prometheus.Labels{
		batchTypeLabel:   batchType,
		batchStatusLabel: status,
	}
	batchesTotalMetric.With(labels).Inc()
}

func AddRowsMetric(batchType, outcome string, count int) {
	if count <= 0 {
		return
	}
	labels := prometheus.Labels{
		batchTypeLabel:  batchType,
		rowOutcomeLabel: outcome,
	}
	rowsTotalMetric.With(labels).Add(float64(count))
}

func ObserveApplyDuration(batchType string, d time.Duration) {
	applyDurationMetric.With(prometheus.Labels{batchTypeLabel: batchType}).Observe(d.Seconds())
}

func AddDeactivatedPartsMetric(count int64) {
	if count <= 0 {
		return
	}
	partsDeactivatedMetric.Add(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(batchesTotalMetric)
	prometheus.MustRegister(rowsTotalMetric)
	prometheus.MustRegister(applyDurationMetric)
	prometheus.MustRegister(partsDeactivatedMetric)
}
