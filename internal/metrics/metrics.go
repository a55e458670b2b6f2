package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	RequestsCreated    *prometheus.CounterVec
	RequestsResolved   *prometheus.CounterVec
	RequestWaitSeconds prometheus.Histogram
	SmsSentTotal       *prometheus.CounterVec
	SmsSendErrors      *prometheus.CounterVec
	CreditsDebited     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	SweepExpiredTotal  prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewlio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rewlio_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rewlio_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		RequestsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewlio_info_requests_created_total",
				Help: "Total number of info requests created",
			},
			[]string{"info_type"},
		),
		RequestsResolved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewlio_info_requests_resolved_total",
				Help: "Total number of info requests resolved, by final status",
			},
			[]string{"status"},
		),
		RequestWaitSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rewlio_info_request_wait_seconds",
				Help:    "Time the orchestrator spent blocked waiting for a reply",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 180, 300},
			},
		),
		SmsSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewlio_sms_sent_total",
				Help: "Total number of SMS handed to the carrier",
			},
			[]string{"direction", "kind"},
		),
		SmsSendErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewlio_sms_send_errors_total",
				Help: "Total number of SMS send failures, by carrier error code",
			},
			[]string{"error_code"},
		),
		CreditsDebited: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rewlio_credits_debited_total",
				Help: "Total credits debited for delivered prompts",
			},
		),
		ValidationFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewlio_reply_validation_failures_total",
				Help: "Total inbound replies that failed typed validation",
			},
			[]string{"info_type"},
		),
		SweepExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rewlio_sweep_expired_total",
				Help: "Total requests expired by the sweeper",
			},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}
