package infrastructure

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "startupcli"

// Metrics holds the application counters on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rowsLoaded   prometheus.Counter
	rowsRejected prometheus.Counter
	aggregations *prometheus.CounterVec
	charts       *prometheus.CounterVec
	exports      *prometheus.CounterVec
}

// NewMetrics creates and registers the application counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_rows_loaded_total",
			Help:      "Records accepted from the input dataset.",
		}),
		rowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_rows_rejected_total",
			Help:      "Rows that failed to parse or validate.",
		}),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "aggregations_total",
			Help:      "Aggregations computed, by metric and outcome.",
		}, []string{"metric", "outcome"}),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "charts_total",
			Help:      "Charts built or rendered, by view and outcome.",
		}, []string{"view", "outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "exports_total",
			Help:      "Report artifacts written, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	m.registry.MustRegister(m.rowsLoaded, m.rowsRejected, m.aggregations, m.charts, m.exports)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RowsLoaded adds n accepted records.
func (m *Metrics) RowsLoaded(n int) {
	if m == nil {
		return
	}
	m.rowsLoaded.Add(float64(n))
}

// RowRejected counts one rejected row.
func (m *Metrics) RowRejected() {
	if m == nil {
		return
	}
	m.rowsRejected.Inc()
}

// Aggregation counts one aggregation call.
func (m *Metrics) Aggregation(metric string, err error) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(metric, outcome(err)).Inc()
}

// Chart counts one chart built or rendered for a view.
func (m *Metrics) Chart(view string, err error) {
	if m == nil {
		return
	}
	m.charts.WithLabelValues(view, outcome(err)).Inc()
}

// Export counts one report artifact write.
func (m *Metrics) Export(kind string, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(kind, outcome(err)).Inc()
}

// WriteTextfile dumps the registry in the Prometheus text format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
