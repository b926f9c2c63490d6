package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by terminal reason",
		},
		[]string{"reason"}, // "ok" / "cache_hit" / "empty_query" / "tenant_not_resolved" / "no_matches"
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storesearch",
			Name:      "search_request_duration_seconds",
			Help:      "End-to-end search request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"reason"},
	)

	TierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "search_tier_requests_total",
			Help:      "Per-tier search attempts by outcome",
		},
		[]string{"tier", "status"}, // status: "hit" / "empty" / "failed"
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "search_result_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	TenantResolutionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storesearch",
			Name:      "tenant_resolution_total",
			Help:      "Tenant resolution attempts by resolving stage",
		},
		[]string{"stage"}, // "cache" / "variant" / "database" / "miss" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(TierRequestsTotal)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(TenantResolutionTotal)
	searchMetricsRegistered = true
}
