// Package metrics defines the Prometheus collectors for the Mergington
// Activities API. Collectors are registered on the default registry via
// promauto and exposed by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being handled",
		},
	)

	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_signups_total",
			Help: "Total number of signup attempts by activity and result",
		},
		[]string{"activity", "result"},
	)

	UnregistersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_unregisters_total",
			Help: "Total number of unregister attempts by activity and result",
		},
		[]string{"activity", "result"},
	)

	SignupsOverCapacity = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_signup_over_capacity_total",
			Help: "Signups that landed at or beyond an activity's advertised capacity",
		},
		[]string{"activity"},
	)

	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_roster_size",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	RosterCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_roster_capacity",
			Help: "Advertised maximum participants per activity",
		},
		[]string{"activity"},
	)
)
