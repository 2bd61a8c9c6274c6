package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion and query Prometheus metrics.
var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Patent page fetches by outcome",
		},
		[]string{"result"}, // "success" / "http_error" / "network_error" / "parse_error"
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Patent page fetch duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	IngestPatentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_patents_total",
			Help:      "Patent identifiers processed by ingestion, by outcome",
		},
		[]string{"result"}, // "inserted" / "duplicate" / "failed" / "skipped"
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Similarity query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	QueryCorpusSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "query_corpus_size",
			Help:      "Number of patents scored by the last similarity query",
		},
	)
)

var corpusMetricsRegistered bool

// RegisterCorpusMetrics registers ingestion and query metrics. Must be called once from main.
func RegisterCorpusMetrics() {
	if corpusMetricsRegistered {
		return
	}
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(IngestPatentsTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryCorpusSize)
	corpusMetricsRegistered = true
}
