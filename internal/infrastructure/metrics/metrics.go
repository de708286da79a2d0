package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventosIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_portal_eventos_ingested_total",
		Help: "Events accepted from the companion app",
	}, []string{"tipo", "severidade"})
	EventosEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutor_portal_eventos_evicted_total",
		Help: "Events removed by the per-tutor retention limit",
	})
	PushNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_portal_push_notifications_total",
		Help: "Push notifications attempted, by result",
	}, []string{"result"})
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_portal_login_attempts_total",
		Help: "Login attempts, by result",
	}, []string{"result"})
	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tutor_portal_stream_clients",
		Help: "Websocket clients currently following an event feed",
	})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutor_portal_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Label values for result counters
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultThrottled = "throttled"
	ResultSkipped   = "skipped"
)
