// Package ports defines the interfaces that connect the application layer
// to the infrastructure layer. These interfaces enable dependency inversion
// and make the estimation pipeline testable without real collaborators.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-podium/internal/domain"
)

// Fitter fits per-idea quality and per-judge position bias to a set of
// normalized judgments. Implementations must be pure: each call allocates
// fresh state and mutates nothing shared, so concurrent calls (one per
// bootstrap resample) produce results independent of execution order.
type Fitter interface {
	// Fit runs the estimation on the given judgments. The idea and judge
	// identifier slices fix the parameter universe; observed win counts are
	// derived from the judgments themselves, which lets bootstrap resamples
	// reuse the full universe while refitting on resampled evidence. Judge
	// reliability is read from the profile and never modified. Fit never
	// fails: degenerate inputs (zero ideas or judgments) yield all-zero
	// results marked converged.
	Fit(ctx context.Context, judgments []domain.Judgment, ideaIDs, judgeIDs []string, profile domain.CalibrationProfile) domain.EstimationResult
}

// UncertaintyEstimator quantifies the sampling variability of fitted theta
// values, typically by bootstrap resampling.
type UncertaintyEstimator interface {
	// EstimateUncertainty returns per-idea sampling statistics. An empty
	// map means uncertainty estimation was disabled.
	EstimateUncertainty(ctx context.Context, judgments []domain.Judgment, ideaIDs, judgeIDs []string, profile domain.CalibrationProfile) map[string]domain.BootstrapStats
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, useful for tracking
	// distributions like iteration counts or resample durations.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
