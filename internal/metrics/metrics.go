package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locator_search_requests_total",
		Help: "Total number of listing searches",
	})
	SearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "locator_search_duration_ms",
		Help:    "Listing search duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	MatchLevelTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_match_level_total",
		Help: "Searches by the cascade tier that produced the result",
	}, []string{"level"})
	CandidateCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locator_candidate_cache_hits_total",
		Help: "Total candidate cache hits",
	})
	CandidateCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locator_candidate_cache_misses_total",
		Help: "Total candidate cache misses",
	})
	StoreQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_store_queries_total",
		Help: "Listing store queries by outcome",
	}, []string{"query", "status"})
	AuditRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_audit_runs_total",
		Help: "Audit runs by source",
	}, []string{"source"})
	AuditFindings = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "locator_audit_findings",
		Help: "Findings of the most recent audit by kind",
	}, []string{"kind"})
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_geocode_requests_total",
		Help: "Free-text resolutions by backend and outcome",
	}, []string{"backend", "status"})
)

func init() {
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDurationMs)
	prometheus.MustRegister(MatchLevelTotal)
	prometheus.MustRegister(CandidateCacheHitsTotal)
	prometheus.MustRegister(CandidateCacheMissesTotal)
	prometheus.MustRegister(StoreQueriesTotal)
	prometheus.MustRegister(AuditRunsTotal)
	prometheus.MustRegister(AuditFindings)
	prometheus.MustRegister(GeocodeRequestsTotal)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
