package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway metrics
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "license_monitor_gateway_requests_total",
			Help: "Total number of PredictHQ gateway requests by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "license_monitor_upstream_duration_seconds",
			Help:    "Duration of PredictHQ API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Dashboard metrics
	EventsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "license_monitor_events_imported_total",
			Help: "Total number of events normalized into dashboard stores",
		},
	)

	EventsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "license_monitor_events_added_total",
			Help: "Total number of manually added events",
		},
	)

	LicenseChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "license_monitor_license_changes_total",
			Help: "Total number of license status changes by resulting status",
		},
		[]string{"licensed"},
	)

	StaleLoads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "license_monitor_stale_loads_total",
			Help: "Refresh responses discarded because a newer refresh was issued",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "license_monitor_active_sessions",
			Help: "Current number of dashboard sessions",
		},
	)
)
