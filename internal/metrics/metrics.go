// Package metrics defines the Prometheus metric collectors used across the
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	SubmissionsTotal     *prometheus.CounterVec
	ExportsTotal         *prometheus.CounterVec
	AdminLoginsTotal     *prometheus.CounterVec
	SessionRejectedTotal *prometheus.CounterVec
}

// New creates all collectors on a fresh registry so independent instances
// never collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedback_submissions_total",
				Help: "Total accepted feedback submissions by satisfaction level.",
			},
			[]string{"level"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedback_exports_total",
				Help: "Total rendered export downloads by format.",
			},
			[]string{"format"},
		),
		AdminLoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_logins_total",
				Help: "Total admin login attempts by outcome (success, failure).",
			},
			[]string{"outcome"},
		),
		SessionRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_sessions_rejected_total",
				Help: "Total admin requests turned away by reason (missing, expired, revoked).",
			},
			[]string{"reason"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SubmissionsTotal,
		m.ExportsTotal,
		m.AdminLoginsTotal,
		m.SessionRejectedTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
