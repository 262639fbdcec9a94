// Package metrics provides Prometheus metrics collection for occigate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for occigate.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Protocol engine metrics
	ParseFailures      *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RenderedResponses  *prometheus.CounterVec

	// Backend metrics
	BackendDuration *prometheus.HistogramVec
	BackendErrors   *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a new metrics collector registered on its own registry,
// so tests can build isolated instances.
func New() (*Collector, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	c := &Collector{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "occigate",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "occigate",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		ParseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "parse_failures_total",
				Help:      "Representations rejected by the parsers",
			},
			[]string{"content_type"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "validation_failures_total",
				Help:      "Representations rejected by the scheme validator",
			},
			[]string{"code"},
		),
		RenderedResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "rendered_responses_total",
				Help:      "Responses rendered per content type",
			},
			[]string{"content_type"},
		),
		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "occigate",
				Name:      "backend_duration_seconds",
				Help:      "Backend call duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		BackendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "backend_errors_total",
				Help:      "Backend call failures by status",
			},
			[]string{"operation", "status"},
		),
		ConfigReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "config_reloads_total",
				Help:      "Successful configuration reloads",
			},
		),
		ConfigReloadErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "occigate",
				Name:      "config_reload_errors_total",
				Help:      "Failed configuration reloads",
			},
		),
	}

	reg.MustRegister(
		c.RequestsTotal, c.RequestDuration, c.RequestsInFlight,
		c.ParseFailures, c.ValidationFailures, c.RenderedResponses,
		c.BackendDuration, c.BackendErrors,
		c.ConfigReloads, c.ConfigReloadErrors,
	)
	return c, reg
}
