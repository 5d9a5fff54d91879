// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "videohub"

var (
	// RelationTogglesTotal tracks like and subscription toggles.
	// Labels:
	//   - kind: video, comment, post, channel
	//   - state: added, removed, error
	RelationTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relation_toggles_total",
			Help:      "Total number of relation toggles",
		},
		[]string{"kind", "state"},
	)

	// AuthEventsTotal tracks session lifecycle events.
	// Labels:
	//   - event: login, refresh, logout
	//   - result: success, rejected, error
	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Total number of authentication events",
		},
		[]string{"event", "result"},
	)

	// CacheOperationsTotal tracks cache operations.
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status"},
	)

	// SingleflightRequestsTotal tracks how often concurrent loads were coalesced.
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// HTTPRequestDuration tracks handled requests by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Auth event constants.
const (
	AuthEventLogin   = "login"
	AuthEventRefresh = "refresh"
	AuthEventLogout  = "logout"

	AuthResultSuccess  = "success"
	AuthResultRejected = "rejected"
	AuthResultError    = "error"
)

// Cache operation constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"

	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// RecordAuth increments the auth event counter.
func RecordAuth(event, result string) {
	AuthEventsTotal.WithLabelValues(event, result).Inc()
}

// RecordToggle increments the relation toggle counter.
func RecordToggle(kind, state string) {
	RelationTogglesTotal.WithLabelValues(kind, state).Inc()
}

// RecordCacheOperation increments the cache operation counter.
func RecordCacheOperation(operation, status string) {
	CacheOperationsTotal.WithLabelValues(operation, status).Inc()
}
