package metrics

import "github.com/prometheus/client_golang/prometheus"

// Vector index Prometheus metrics.
var (
	VectorSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "vector_search_requests_total",
			Help:      "Total number of vector index queries",
		},
		[]string{"driver", "status"},
	)

	VectorSearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsearch",
			Name:      "vector_search_duration_seconds",
			Help:      "Vector index query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver"},
	)

	VectorSearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsearch",
			Name:      "vector_search_results",
			Help:      "Number of candidates returned per vector index query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"driver"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus vector index metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(VectorSearchRequestsTotal)
	prometheus.MustRegister(VectorSearchDuration)
	prometheus.MustRegister(VectorSearchResults)
	searchMetricsRegistered = true
}
