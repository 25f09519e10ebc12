// Package observability provides metrics integration for the estimation
// engine.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-podium/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks run volume, fit convergence behavior, and stage
// latencies for the estimation pipeline.
type PrometheusMetrics struct {
	runsTotal        *prometheus.CounterVec
	executionLatency *prometheus.HistogramVec
	iterationsUsed   prometheus.Histogram
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// all metrics with the given registerer. Pass prometheus.DefaultRegisterer
// for production use or a fresh registry in tests.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estimation_runs_total",
				Help: "Total number of estimation runs by status.",
			},
			[]string{"status"},
		),
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "estimation_duration_seconds",
				Help:    "Execution time of estimation pipeline operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		iterationsUsed: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "estimation_iterations",
				Help:    "MM rounds used per fit before convergence or budget exhaustion.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "estimation_state",
				Help: "Current state values for the estimation pipeline.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records the execution time of a pipeline operation.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, _ map[string]string) {
	pm.executionLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter increments the run counter. The status label defaults to
// "ok" when absent.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	status, ok := labels["status"]
	if !ok {
		status = "ok"
	}
	switch metric {
	case "estimation_runs_total":
		pm.runsTotal.WithLabelValues(status).Add(value)
	default:
		pm.systemGauges.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge sets the current value of a pipeline gauge.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram records a value in the metric-appropriate histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	switch metric {
	case "estimation_iterations":
		pm.iterationsUsed.Observe(value)
	default:
		pm.executionLatency.WithLabelValues(metric).Observe(value)
	}
}
