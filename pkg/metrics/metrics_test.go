package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/dealerportal/partsfeed/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStats struct {
	stats model.IngestStats
	err   error
}

func (f *fakeStats) Statistics(_ context.Context) (model.IngestStats, error) {
	return f.stats, f.err
}

var _ = Describe("metrics", func() {
	Context("counters", func() {
		It("counts batches by type and status", func() {
			before := testutil.ToFloat64(batchesTotalMetric.WithLabelValues("supersession", "APPLIED"))
			IncreaseBatchesTotalMetric("supersession", "APPLIED")
			Expect(testutil.ToFloat64(batchesTotalMetric.WithLabelValues("supersession", "APPLIED"))).To(Equal(before + 1))
		})

		It("adds rows and ignores empty outcomes", func() {
			before := testutil.ToFloat64(rowsTotalMetric.WithLabelValues("order_status", RowOutcomeStale))
			AddRowsMetric("order_status", RowOutcomeStale, 3)
			AddRowsMetric("order_status", RowOutcomeStale, 0)
			Expect(testutil.ToFloat64(rowsTotalMetric.WithLabelValues("order_status", RowOutcomeStale))).To(Equal(before + 3))
		})

		It("counts deactivated parts", func() {
			before := testutil.ToFloat64(partsDeactivatedMetric)
			AddDeactivatedPartsMetric(2)
			AddDeactivatedPartsMetric(-1)
			Expect(testutil.ToFloat64(partsDeactivatedMetric)).To(Equal(before + 2))
		})

		It("observes apply duration", func() {
			ObserveApplyDuration("parts_genuine", 120*time.Millisecond)
			Expect(testutil.CollectAndCount(applyDurationMetric)).To(BeNumerically(">=", 1))
		})
	})

	Context("store collector", func() {
		It("exports store statistics as gauges", func() {
			collector := NewIngestStatsCollector(&fakeStats{stats: model.IngestStats{
				BatchesByStatus:   map[model.BatchStatus]int{model.BatchStatusApplied: 4, model.BatchStatusRejected: 1},
				ActivePartsByType: map[model.PartType]int{model.PartTypeGenuine: 10},
				Supersessions:     7,
			}})

			expected := `
# HELP partsfeed_store_supersessions Stored supersession edges.
# TYPE partsfeed_store_supersessions gauge
partsfeed_store_supersessions 7
`
			Expect(testutil.CollectAndCompare(collector, strings.NewReader(expected), "partsfeed_store_supersessions")).To(Succeed())
			Expect(testutil.CollectAndCount(collector, "partsfeed_store_batches")).To(Equal(2))
			Expect(testutil.CollectAndCount(collector, "partsfeed_store_active_parts")).To(Equal(1))
		})

		It("exports nothing when the store fails", func() {
			collector := NewIngestStatsCollector(&fakeStats{err: errors.New("db down")})
			Expect(testutil.CollectAndCount(collector)).To(Equal(0))
		})
	})

	Context("push", func() {
		It("pushes to the gateway under the partsfeed job", func() {
			var (
				lock   sync.Mutex
				method string
				path   string
				body   string
			)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				lock.Lock()
				defer lock.Unlock()
				method, path = r.Method, r.URL.Path
				b, _ := io.ReadAll(r.Body)
				body = string(b)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			IncreaseBatchesTotalMetric("parts_aftermarket", "REJECTED")
			err := Push(context.TODO(), server.URL, &fakeStats{stats: model.IngestStats{Supersessions: 1}})
			Expect(err).To(BeNil())

			lock.Lock()
			defer lock.Unlock()
			Expect(method).To(Equal(http.MethodPut))
			Expect(path).To(Equal("/metrics/job/partsfeed"))
			Expect(body).NotTo(BeEmpty())
		})

		It("fails when the gateway refuses", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			Expect(Push(context.TODO(), server.URL, nil)).NotTo(Succeed())
		})
	})

	It("registers with the default registry", func() {
		err := prometheus.Register(batchesTotalMetric)
		Expect(err).To(BeAssignableToTypeOf(prometheus.AlreadyRegisteredError{}))
	})
})
