package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Verification Prometheus metrics.
var (
	VerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teyit",
			Name:      "verifications_total",
			Help:      "Total number of completed verifications",
		},
		[]string{"status"},
	)

	VerificationScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "teyit",
			Name:      "verification_score",
			Help:      "Distribution of final verification scores",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	SearchFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "teyit",
			Name:      "search_fallback_total",
			Help:      "Total number of verifications served by the fallback search",
		},
	)
)

var registerVerificationOnce sync.Once

// RegisterVerificationMetrics registers Prometheus verification metrics.
// Safe to call more than once and from concurrent callers.
func RegisterVerificationMetrics() {
	registerVerificationOnce.Do(func() {
		prometheus.MustRegister(VerificationsTotal)
		prometheus.MustRegister(VerificationScore)
		prometheus.MustRegister(SearchFallbackTotal)
	})
}

// ObserveVerification records one completed verification.
func ObserveVerification(status string, score float64, fallbackUsed bool) {
	VerificationsTotal.WithLabelValues(status).Inc()
	VerificationScore.Observe(score)
	if fallbackUsed {
		SearchFallbackTotal.Inc()
	}
}
