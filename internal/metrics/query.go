package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total answered questions by routing outcome",
		},
		[]string{"route"}, // "static" / "static_web"
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval duration in seconds per source",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"source"},
	)

	WebSearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "web_search_errors_total",
			Help:      "Web search failures that degraded a query to static-only",
		},
		[]string{"reason"},
	)

	PageExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_extractions_total",
			Help:      "Fetched pages by extraction strategy",
		},
		[]string{"strategy"}, // strategy name, "fetch_failed" or "failed"
	)

	AnswersReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answers_returned",
			Help:      "Number of answers returned per question",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 10},
		},
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_total",
			Help:      "Page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SemanticRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "semantic_requests_total",
			Help:      "Embedding requests made by the semantic reader",
		},
		[]string{"status"}, // "success" / "error"
	)

	SearchQuotaRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_quota_remaining",
			Help:      "Search provider calls left in the current period (-1 = unlimited)",
		},
		[]string{"provider", "period"}, // period: "daily" / "monthly"
	)

	SemanticRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "semantic_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers the query pipeline metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(WebSearchErrorsTotal)
	prometheus.MustRegister(PageExtractionsTotal)
	prometheus.MustRegister(AnswersReturned)
	prometheus.MustRegister(PageCacheTotal)
	prometheus.MustRegister(SemanticRequestsTotal)
	prometheus.MustRegister(SemanticRequestDuration)
	prometheus.MustRegister(SearchQuotaRemaining)
	queryMetricsRegistered = true
}
