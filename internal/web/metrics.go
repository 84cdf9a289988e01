package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's Prometheus instruments on a private
// registry so tests can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	Dispatches         *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	ManifestLoads      *prometheus.CounterVec
}

// NewMetrics creates and registers the daemon's instruments.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "releasegate_dispatches_total",
				Help: "Workflow dispatch attempts by outcome.",
			},
			[]string{"outcome"},
		),
		ValidationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "releasegate_validation_failures_total",
				Help: "Submissions rejected by the pairing validator.",
			},
		),
		ManifestLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "releasegate_manifest_loads_total",
				Help: "Manifest loads by outcome.",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.Dispatches, m.ValidationFailures, m.ManifestLoads)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
