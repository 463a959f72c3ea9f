package kb

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdpchat_requests_total",
			Help: "API requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cdpchat_request_duration_seconds",
			Help:    "API request latency distribution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	answersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdpchat_answers_total",
			Help: "Answers served by platform and match kind.",
		},
		[]string{"platform", "match"},
	)

	docChunksIndexed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cdpchat_doc_chunks_indexed",
			Help: "Documentation chunks currently indexed per platform.",
		},
		[]string{"platform"},
	)
)

// registerMetrics registers collectors with the default registry
// (idempotent).
func registerMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(
			requestsTotal, requestDuration,
			answersTotal, docChunksIndexed,
		)
	})
}

func normLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "none"
	}
	return s
}

// ObserveAnswer records one served answer.
func ObserveAnswer(platform, match string) {
	answersTotal.WithLabelValues(normLabel(platform), normLabel(match)).Inc()
}

// SetDocChunks records the indexed chunk count for a platform.
func SetDocChunks(platform string, count int) {
	docChunksIndexed.WithLabelValues(normLabel(platform)).Set(float64(count))
}
