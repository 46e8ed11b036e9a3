// Package metrics provides Prometheus metrics for autoproject.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danieljhkim/autoproject/internal/reconcile"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	DecisionsTotal  *prometheus.CounterVec
	ProjectPaths    prometheus.Gauge
	SettingsReloads prometheus.Counter
	BridgeEvents    *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoproject_reconcile_decisions_total",
				Help: "Reconciliation passes by outcome.",
			},
			[]string{"result"},
		),
		ProjectPaths: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "autoproject_project_paths",
				Help: "Number of project root folders after the last commit.",
			},
		),
		SettingsReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "autoproject_settings_reloads_total",
				Help: "Settings file reloads triggered by filesystem changes.",
			},
		),
		BridgeEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoproject_bridge_events_total",
				Help: "Inbound editor bridge events by type and status.",
			},
			[]string{"type", "status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.DecisionsTotal, m.ProjectPaths, m.SettingsReloads, m.BridgeEvents)

	// Export every outcome at zero so rate queries see the series from the start.
	for _, r := range reconcile.Results {
		m.DecisionsTotal.WithLabelValues(string(r))
	}
	return m
}

// RecordDecision counts a reconciliation outcome.
func (m *Metrics) RecordDecision(result string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(result).Inc()
}

// SetProjectPaths records the size of the committed project path list.
func (m *Metrics) SetProjectPaths(n int) {
	if m == nil {
		return
	}
	m.ProjectPaths.Set(float64(n))
}

// RecordSettingsReload counts a settings reload.
func (m *Metrics) RecordSettingsReload() {
	if m == nil {
		return
	}
	m.SettingsReloads.Inc()
}

// RecordBridgeEvent counts an inbound bridge event.
func (m *Metrics) RecordBridgeEvent(eventType, status string) {
	if m == nil {
		return
	}
	m.BridgeEvents.WithLabelValues(eventType, status).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
