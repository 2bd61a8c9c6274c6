package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "patentsim"

// Encoder Prometheus metrics.
var (
	EncoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_requests_total",
			Help:      "Total number of encoder batch requests",
		},
		[]string{"provider", "model", "status"},
	)

	EncoderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encoder_request_duration_seconds",
			Help:      "Encoder batch request duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EncoderTextsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_texts_total",
			Help:      "Total texts sent to the encoder",
		},
		[]string{"provider", "model"},
	)

	EncoderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_tokens_total",
			Help:      "Total tokens consumed by token-metered encoders",
		},
		[]string{"provider", "model", "type"},
	)

	EncoderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_errors_total",
			Help:      "Total encoder errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var encMetricsRegistered bool

// RegisterEncoderMetrics registers Prometheus encoder metrics. Must be called once from main.
func RegisterEncoderMetrics() {
	if encMetricsRegistered {
		return
	}
	prometheus.MustRegister(EncoderRequestsTotal)
	prometheus.MustRegister(EncoderRequestDuration)
	prometheus.MustRegister(EncoderTextsTotal)
	prometheus.MustRegister(EncoderTokensTotal)
	prometheus.MustRegister(EncoderErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	encMetricsRegistered = true
}
