package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Tag generation Prometheus metrics.
var (
	TaggingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placebook",
			Name:      "tagging_requests_total",
			Help:      "Total number of tag generation requests",
		},
		[]string{"provider", "model", "status"}, // status: ok / refused / error
	)

	TaggingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placebook",
			Name:      "tagging_request_duration_seconds",
			Help:      "Tag generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "model"},
	)

	TaggingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placebook",
			Name:      "tagging_tokens_total",
			Help:      "Total tag generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	TaggingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placebook",
			Name:      "tagging_errors_total",
			Help:      "Failed tag generations seen by the service layer",
		},
		[]string{"provider", "model"},
	)

	TaggingRefusalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placebook",
			Name:      "tagging_refusals_total",
			Help:      "Prompts the tag generator declined",
		},
		[]string{"provider", "model", "status"},
	)

	TagCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placebook",
			Name:      "tag_cache_total",
			Help:      "Tag cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerTagging sync.Once

// RegisterTaggingMetrics registers tag generation metrics with the default registry.
func RegisterTaggingMetrics() {
	registerTagging.Do(func() {
		prometheus.MustRegister(
			TaggingRequestsTotal,
			TaggingRequestDuration,
			TaggingTokensTotal,
			TaggingErrorsTotal,
			TaggingRefusalsTotal,
			TagCacheTotal,
		)
	})
}
