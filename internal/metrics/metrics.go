package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rt_portal_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rt_portal_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Chat metrics
	ChatsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rt_portal_chats_started_total",
			Help: "Total chats opened for reports",
		},
	)

	MessagesSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rt_portal_messages_saved_total",
			Help: "Total chat messages persisted",
		},
		[]string{"role"}, // CITIZEN or RT_ADMIN
	)

	MessagesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rt_portal_messages_read_total",
			Help: "Total mark-as-read calls",
		},
	)

	UnreadChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rt_portal_unread_checks_total",
			Help: "Total unread indicator lookups",
		},
		[]string{"result"}, // "unread" or "clear"
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rt_portal_rate_limit_hits_total",
			Help: "Total rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Realtime
	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rt_portal_websocket_connections",
			Help: "Currently connected websocket clients",
		},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rt_portal_event_publish_failures_total",
			Help: "Chat events that could not be published",
		},
		[]string{"event_type"},
	)
)
