// Package monitoring exposes the gateway's Prometheus instruments.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jndc_http_requests_total",
			Help: "Inbound HTTP requests by route and status code",
		},
		[]string{"route", "method", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jndc_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"route"},
	)

	// ContactResolutions counts find-or-create outcomes. matched_by is one of
	// phone, email, name or created.
	ContactResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jndc_contact_resolutions_total",
			Help: "Contact dedup outcomes by matching discriminator",
		},
		[]string{"matched_by"},
	)

	JobsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jndc_jobs_created_total",
			Help: "Jobs created by operation",
		},
		[]string{"operation"},
	)

	TransientRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jndc_transient_retries_total",
			Help: "Retries issued after a transient upstream fault",
		},
		[]string{"operation"},
	)

	OrchestrationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jndc_orchestration_failures_total",
			Help: "Failed orchestration runs by stage and fault class",
		},
		[]string{"stage", "fault"},
	)

	upstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jndc_upstream_requests_total",
			Help: "Outbound JobNimbus requests by method and status code",
		},
		[]string{"method", "code"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jndc_upstream_request_duration_seconds",
			Help:    "Outbound JobNimbus request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// InstrumentTransport wraps next so every outbound CRM call is counted and
// timed. A nil next wraps http.DefaultTransport.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(upstreamCalls,
		promhttp.InstrumentRoundTripperDuration(upstreamDuration, next))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
