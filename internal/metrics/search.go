package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memorialdex",
			Name:      "search_requests_total",
			Help:      "Total number of executed searches",
		},
		[]string{"mode", "status"}, // mode: "basic" / "advanced"
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "memorialdex",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	SearchLogWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memorialdex",
			Name:      "search_log_writes_total",
			Help:      "Search log writes by outcome",
		},
		[]string{"result"}, // "ok" / "error" / "dropped"
	)

	SuggestionPoolErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memorialdex",
			Name:      "suggestion_pool_errors_total",
			Help:      "Suggestion candidate pools that failed and were treated as empty",
		},
		[]string{"pool"},
	)

	AnalyticsFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memorialdex",
			Name:      "analytics_failures_total",
			Help:      "Analytics reports served empty because the search log could not be read",
		},
		[]string{"report"},
	)

	RateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memorialdex",
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"group"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchLogWritesTotal)
	prometheus.MustRegister(SuggestionPoolErrorsTotal)
	prometheus.MustRegister(AnalyticsFailuresTotal)
	prometheus.MustRegister(RateLimitRejectionsTotal)
	searchMetricsRegistered = true
}
