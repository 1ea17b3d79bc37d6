package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "timetracker"

const (
	NameHTTPRequestsTotal       = "http_requests_total"
	NameHTTPRequestDuration     = "http_request_duration_seconds"
	NameResourceOperationsTotal = "resource_operations_total"
)

var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameHTTPRequestsTotal,
		Help:      "Total HTTP requests by method, route and status",
		Namespace: Namespace,
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameHTTPRequestDuration,
		Help:      "HTTP request latencies",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

var ResourceOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameResourceOperationsTotal,
		Help:      "Total resource operations by resource, operation and outcome",
		Namespace: Namespace,
	},
	[]string{"resource", "operation", "outcome"},
)
