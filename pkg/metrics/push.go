package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "partsfeed"

// Push sends the process counters, plus the store gauges when source is set, to a
// Pushgateway. The CLI exits right after an upload so nothing is ever scraped.
func Push(ctx context.Context, url string, source StatisticsSource) error {
	pusher := push.New(url, pushJobName).Gatherer(prometheus.DefaultGatherer)
	if source != nil {
		pusher = pusher.Collector(NewIngestStatsCollector(source))
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
