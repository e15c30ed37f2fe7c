// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// FeedCacheLookups counts index feed cache lookups by result.
	FeedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_lookups_total",
		Help: "Index feed cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	// FeedCacheWriteErrors counts failed writes to the feed cache.
	FeedCacheWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_feed_cache_write_errors_total",
		Help: "Total number of failed feed cache writes",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedQueryLatency records how long composing a feed page took, by feed.
	FeedQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_feed_query_latency_seconds",
		Help:    "Feed page composition latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
)

// RecordCacheLookup increments the lookup counter for result.
func RecordCacheLookup(result string) {
	FeedCacheLookups.WithLabelValues(result).Inc()
}

// TrackFeedQuery returns a function that records feed latency when called (e.g. defer).
func TrackFeedQuery(feed string) func() {
	start := time.Now()
	return func() {
		FeedQueryLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
}
