package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of the recommendation HTTP handlers
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommend_http_latency_seconds",
		Help:    "Latency of recommendation handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Total number of recommendation requests served, by status code
	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_http_requests_total",
		Help: "Total number of recommendation HTTP requests",
	}, []string{"endpoint", "code"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
	)
}

// ObserveRequest records one handled request.
func ObserveRequest(endpoint string, code int, start time.Time) {
	RecommendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	RecommendRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}
