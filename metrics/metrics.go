// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagestream_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stagestream_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthAttempts counts login attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagestream_auth_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	PostMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagestream_post_mutations_total",
		Help: "Successful post mutations by operation",
	}, []string{"operation"})

	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagestream_redis_errors_total",
		Help: "Redis command errors by command",
	}, []string{"command"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagestream_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})
)
