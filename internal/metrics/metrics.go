// Package metrics exposes the application's Prometheus collectors and an
// HTTP handler for scraping them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "noverif",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noverif",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "noverif",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	achTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noverif",
			Subsystem: "ach",
			Name:      "transitions_total",
			Help:      "Total number of ACH application status transitions.",
		},
		[]string{"to"},
	)

	sessionExpiries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noverif",
			Subsystem: "sessions",
			Name:      "expiries_total",
			Help:      "Total number of sessions expired by the monitor.",
		},
		[]string{"role"},
	)

	invoicesRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "noverif",
			Subsystem: "invoices",
			Name:      "rendered_total",
			Help:      "Total number of invoice PDFs rendered.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		achTransitions,
		sessionExpiries,
		invoicesRendered,
	)
}

// Handler returns the HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncrementInFlight() { httpInFlight.Inc() }
func DecrementInFlight() { httpInFlight.Dec() }

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordACHTransition counts an application entering the given status.
func RecordACHTransition(to string) {
	achTransitions.WithLabelValues(to).Inc()
}

// RecordSessionExpiry counts a forced sign-out for the given role.
func RecordSessionExpiry(role string) {
	sessionExpiries.WithLabelValues(role).Inc()
}

// RecordInvoiceRendered counts a rendered invoice PDF.
func RecordInvoiceRendered() {
	invoicesRendered.Inc()
}
