// Package metrics holds the service's Prometheus collectors. They register
// with the default registry and are served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Like ledger results.
const (
	LikeApplied = "applied"
	LikeNoop    = "noop"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "social_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Like ledger: action is like or unlike, result is applied or noop.
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_likes_total",
			Help: "Like and unlike calls by outcome",
		},
		[]string{"action", "result"},
	)

	FriendshipTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_friendship_transitions_total",
			Help: "Friendship records written, by resulting transition",
		},
		[]string{"transition"}, // "requested", "confirmed", "removed"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_cache_hits_total",
			Help: "Total number of Redis cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_cache_misses_total",
			Help: "Total number of Redis cache misses",
		},
		[]string{"cache"},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "social_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLike records a like or unlike call; changed reports whether the
// ledger was modified.
func RecordLike(action string, changed bool) {
	result := LikeNoop
	if changed {
		result = LikeApplied
	}
	LikesTotal.WithLabelValues(action, result).Inc()
}

func RecordFriendshipTransition(transition string) {
	FriendshipTransitions.WithLabelValues(transition).Inc()
}

func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

func RecordRateLimitRejection() {
	RateLimitRejections.Inc()
}
