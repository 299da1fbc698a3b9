// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rssagg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rssagg_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Feed fetch metrics
var (
	// FeedCacheLookups counts item cache lookups by result (hit, miss, error, bypass).
	FeedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rssagg_feed_cache_lookups_total",
			Help: "Total number of feed item cache lookups",
		},
		[]string{"result"},
	)

	// FeedFetches counts upstream feed fetches by outcome.
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rssagg_feed_fetches_total",
			Help: "Total number of upstream feed fetches",
		},
		[]string{"outcome"},
	)

	// FeedItemsNormalized counts items returned by fresh fetches.
	FeedItemsNormalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rssagg_feed_items_normalized_total",
			Help: "Total number of feed items normalized from upstream feeds",
		},
	)

	// BreakerStateChanges counts per-host circuit breaker transitions.
	BreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rssagg_fetch_breaker_state_changes_total",
			Help: "Total number of fetch circuit breaker state changes",
		},
		[]string{"to"},
	)
)

// Post metrics
var (
	// PostsSaved counts saved post inserts by result (ok, failed).
	PostsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rssagg_posts_saved_total",
			Help: "Total number of post inserts",
		},
		[]string{"result"},
	)

	// FeedSourcesCreated counts feed sources created on first preview.
	FeedSourcesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rssagg_feed_sources_created_total",
			Help: "Total number of feed sources created",
		},
	)
)

// Cache lookup results.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheError  = "error"
	CacheBypass = "bypass"
)

// Fetch outcomes.
const (
	FetchOK         = "ok"
	FetchParseError = "parse_error"
	FetchEmpty      = "empty"
)

// RecordHTTPRequest records a finished HTTP request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache lookup result.
func RecordCacheLookup(result string) {
	FeedCacheLookups.WithLabelValues(result).Inc()
}

// RecordFetch records an upstream fetch outcome and, on success, the number of items produced.
func RecordFetch(outcome string, items int) {
	FeedFetches.WithLabelValues(outcome).Inc()
	if items > 0 {
		FeedItemsNormalized.Add(float64(items))
	}
}

// RecordBreakerStateChange records a circuit breaker transition.
func RecordBreakerStateChange(to string) {
	BreakerStateChanges.WithLabelValues(to).Inc()
}

// RecordPostSaved records a single post insert.
func RecordPostSaved(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	PostsSaved.WithLabelValues(result).Inc()
}

// RecordFeedSourceCreated records a new feed source.
func RecordFeedSourceCreated() {
	FeedSourcesCreated.Inc()
}
