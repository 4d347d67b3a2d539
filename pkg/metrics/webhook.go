package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookMetrics tracks inbound webhook processing and outbound tag sync calls.
type WebhookMetrics interface {
	// RecordWebhookEvent counts a processed delivery.
	// status: "handled", "ignored", "duplicate" or "error"
	RecordWebhookEvent(eventType, status string)
	RecordWebhookProcessingDuration(eventType string, d time.Duration)
	// RecordWebhookError counts a rejected or failed delivery.
	// errorType: "auth_failed", "invalid_payload", "payload_too_large", "processing_error"
	RecordWebhookError(errorType string)
	// RecordTagSync counts tag sync outcomes: "applied", "skipped", "failed".
	RecordTagSync(outcome string)
	// RecordAPICall counts an outbound Kit call. status is the HTTP status code or "transport_error".
	RecordAPICall(endpoint, status string)
	RecordAPICallDuration(endpoint string, d time.Duration)
}

// NoopWebhookMetrics discards everything.
type NoopWebhookMetrics struct{}

func (NoopWebhookMetrics) RecordWebhookEvent(_, _ string)                          {}
func (NoopWebhookMetrics) RecordWebhookProcessingDuration(_ string, _ time.Duration) {}
func (NoopWebhookMetrics) RecordWebhookError(_ string)                             {}
func (NoopWebhookMetrics) RecordTagSync(_ string)                                  {}
func (NoopWebhookMetrics) RecordAPICall(_, _ string)                               {}
func (NoopWebhookMetrics) RecordAPICallDuration(_ string, _ time.Duration)         {}

// PrometheusWebhookMetrics implements WebhookMetrics with Prometheus collectors.
type PrometheusWebhookMetrics struct {
	eventsTotal        *prometheus.CounterVec
	processingDuration *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec
	tagSyncTotal       *prometheus.CounterVec
	apiCallsTotal      *prometheus.CounterVec
	apiCallDuration    *prometheus.HistogramVec
}

func NewWebhookMetrics(reg prometheus.Registerer) *PrometheusWebhookMetrics {
	factory := promauto.With(reg)

	return &PrometheusWebhookMetrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of Paystack webhook events processed.",
		}, []string{"event_type", "status"}),

		processingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "processing_duration_seconds",
			Help:      "Duration of webhook processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "errors_total",
			Help:      "Total number of rejected or failed webhook deliveries.",
		}, []string{"error_type"}),

		tagSyncTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kit",
			Name:      "tag_sync_total",
			Help:      "Total number of Kit tag synchronization attempts by outcome.",
		}, []string{"outcome"}),

		apiCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kit",
			Name:      "api_calls_total",
			Help:      "Total number of Kit API calls.",
		}, []string{"endpoint", "status"}),

		apiCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kit",
			Name:      "api_call_duration_seconds",
			Help:      "Duration of Kit API calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *PrometheusWebhookMetrics) RecordWebhookEvent(eventType, status string) {
	m.eventsTotal.WithLabelValues(eventType, status).Inc()
}

func (m *PrometheusWebhookMetrics) RecordWebhookProcessingDuration(eventType string, d time.Duration) {
	m.processingDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

func (m *PrometheusWebhookMetrics) RecordWebhookError(errorType string) {
	m.errorsTotal.WithLabelValues(errorType).Inc()
}

func (m *PrometheusWebhookMetrics) RecordTagSync(outcome string) {
	m.tagSyncTotal.WithLabelValues(outcome).Inc()
}

func (m *PrometheusWebhookMetrics) RecordAPICall(endpoint, status string) {
	m.apiCallsTotal.WithLabelValues(endpoint, status).Inc()
}

func (m *PrometheusWebhookMetrics) RecordAPICallDuration(endpoint string, d time.Duration) {
	m.apiCallDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
