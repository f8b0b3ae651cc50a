package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recommendation Prometheus metrics.
var (
	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simrec",
			Name:      "recommend_requests_total",
			Help:      "Total number of recommendation lookups",
		},
		[]string{"outcome"}, // "ok" / "not_found" / "error"
	)

	RecommendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "simrec",
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation lookup duration in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
	)

	RecommendCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simrec",
			Name:      "recommend_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DatasetDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "simrec",
			Name:      "dataset_documents",
			Help:      "Number of documents in the loaded corpus",
		},
	)
)

var registerRecommendOnce sync.Once

// RegisterRecommendMetrics registers recommendation metrics on the default
// registry. Called from main; safe to call more than once.
func RegisterRecommendMetrics() {
	registerRecommendOnce.Do(func() {
		prometheus.MustRegister(RecommendRequestsTotal)
		prometheus.MustRegister(RecommendDuration)
		prometheus.MustRegister(RecommendCacheTotal)
		prometheus.MustRegister(DatasetDocuments)
	})
}
