package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	PathAnonymous    = "anonymous"
	PathColdStart    = "cold_start"
	PathPersonalized = "personalized"
	PathFallback     = "fallback"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Count of recommendation requests by serving path.",
		},
		[]string{"path"},
	)

	GeneratorFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_generator_failures_total",
			Help: "Count of absorbed data access failures by generator.",
		},
		[]string{"generator"},
	)

	ResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_result_size",
			Help:    "Number of products returned per recommendation request.",
			Buckets: []float64{0, 1, 4, 8, 12, 24, 50, 100},
		},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, GeneratorFailuresTotal, ResultSize)
}
