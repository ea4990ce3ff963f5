package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrackingSessions = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "tripmate_console", Name: "tracking_sessions", Help: "Currently open ride tracking sessions"})
	LiveEventsTotal  = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmate_console", Name: "live_events_total", Help: "Inbound realtime events by type"},
		[]string{"type"},
	)
	RouteLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmate_console", Name: "route_lookups_total", Help: "Route geometry lookups by outcome"},
		[]string{"outcome"},
	)
	KYCDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmate_console", Name: "kyc_decisions_total", Help: "KYC decisions submitted by status"},
		[]string{"status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripmate_console", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripmate_console",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
