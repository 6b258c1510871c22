// Package observability provides Prometheus metrics for shock runs.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name when none is configured.
const DefaultNamespace = "shocklab"

// Metrics holds all Prometheus metrics of a run.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Shock metrics
	ShocksComputed *prometheus.CounterVec
	FactorErrors   *prometheus.CounterVec

	// Pipeline metrics
	StepRuns         *prometheus.CounterVec
	StepDuration     *prometheus.HistogramVec
	ReportsGenerated *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	return NewMetricsWith(namespace, reg, reg)
}

// NewMetricsWith registers the metrics on reg and exports them from g.
func NewMetricsWith(namespace string, reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: g,

		ShocksComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shocks",
			Name:      "computed_total",
			Help:      "Total number of shocks computed by formula",
		}, []string{"formula"}),
		FactorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shocks",
			Name:      "factor_errors_total",
			Help:      "Total number of factor errors by step",
		}, []string{"step"}),

		StepRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "step_runs_total",
			Help:      "Total number of pipeline step runs by status",
		}, []string{"step", "status"}),
		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Pipeline step duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"step"}),
		ReportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of report artifacts written by format",
		}, []string{"format"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// RecordStep records one step execution.
func (m *Metrics) RecordStep(step, status string, d time.Duration) {
	m.StepRuns.WithLabelValues(step, status).Inc()
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// RecordShock counts a computed shock.
func (m *Metrics) RecordShock(formula string) {
	m.ShocksComputed.WithLabelValues(formula).Inc()
}

// RecordFactorErrors adds n factor errors for a step.
func (m *Metrics) RecordFactorErrors(step string, n int) {
	if n > 0 {
		m.FactorErrors.WithLabelValues(step).Add(float64(n))
	}
}

// RecordReport counts a written artifact.
func (m *Metrics) RecordReport(format string) {
	m.ReportsGenerated.WithLabelValues(format).Inc()
}

// MarkSuccess stamps the last successful run.
func (m *Metrics) MarkSuccess(at time.Time) {
	m.LastSuccessfulRun.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
