package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamCallsTotal counts logical calls by final outcome.
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_gateway_upstream_calls_total",
			Help: "Total number of logical upstream calls",
		},
		[]string{"operation", "outcome"},
	)

	// UpstreamAttemptsTotal counts physical dispatches, retries included.
	UpstreamAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_gateway_upstream_attempts_total",
			Help: "Total number of physical upstream requests",
		},
		[]string{"operation"},
	)

	RateLimitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "employee_gateway_rate_limit_rejections_total",
			Help: "Logical calls rejected because no permit was available in time",
		},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "employee_gateway_upstream_latency_seconds",
			Help:    "Latency of logical upstream calls including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

const (
	outcomeSuccess     = "success"
	outcomeError       = "error"
	outcomeRateLimited = "rate_limited"
	outcomeCanceled    = "canceled"
)
