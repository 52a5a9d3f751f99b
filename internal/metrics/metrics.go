// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors live on a dedicated Registry (Go runtime and process collectors
// included) rather than the global default, so tests can scrape it in isolation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status_code"},
	)

	SubmissionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Submissions processed by kind and outcome",
		},
		[]string{"kind", "outcome"}, // created, honeypot, rejected, failed
	)

	NotificationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Notification dispatch results by kind and outcome",
		},
		[]string{"kind", "outcome"}, // sent, skipped_not_configured, failed, dropped
	)

	ResumeUploadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_resume_uploads_total",
			Help: "Resume uploads to object storage by outcome",
		},
		[]string{"outcome"}, // stored, skipped_not_configured, failed
	)

	StorageDurableActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_storage_durable_active",
			Help: "1 while submissions are written to the durable store, 0 once degraded to memory",
		},
	)

	StorageFallbacksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_storage_fallbacks_total",
			Help: "Durable-to-memory storage transitions by triggering operation",
		},
		[]string{"operation"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in Prometheus text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

func ObserveHTTPRequest(method, route, statusCode string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, statusCode).Observe(d.Seconds())
}

func RecordSubmission(kind, outcome string) {
	SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordNotification(kind, outcome string) {
	NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordResumeUpload(outcome string) {
	ResumeUploadsTotal.WithLabelValues(outcome).Inc()
}

func RecordStorageFallback(operation string) {
	StorageFallbacksTotal.WithLabelValues(operation).Inc()
}

func SetDurableActive(active bool) {
	if active {
		StorageDurableActive.Set(1)
		return
	}
	StorageDurableActive.Set(0)
}
