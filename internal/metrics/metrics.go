// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "HTTP requests by method, matched route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "HTTP request latency by method and matched route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_auth_events_total",
		Help: "Signup, login and logout attempts by outcome.",
	}, []string{"event", "outcome"})

	AttendanceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_attendance_events_total",
		Help: "Check-in and check-out attempts by outcome.",
	}, []string{"action", "outcome"})
)
