package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skypulse_upstream_calls_total",
			Help: "Total calls to the geocoding and forecast APIs",
		},
		[]string{"source", "endpoint", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skypulse_upstream_latency_seconds",
			Help:    "Upstream API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "endpoint"},
	)

	ControllerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skypulse_controller_operations_total",
			Help: "Search and locate operations by outcome (ok, error, stale)",
		},
		[]string{"op", "outcome"},
	)
)
