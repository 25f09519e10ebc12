package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("estimation_runs_total", 1, map[string]string{"status": "ok"})
	pm.RecordCounter("estimation_runs_total", 1, map[string]string{"status": "ok"})
	pm.RecordCounter("estimation_runs_total", 1, map[string]string{"status": "failed"})

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.runsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.runsTotal.WithLabelValues("failed")))
}

func TestPrometheusMetrics_RecordCounter_DefaultStatus(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("estimation_runs_total", 1, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.runsTotal.WithLabelValues("ok")))
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordGauge("estimation_unique_ideas", 42, nil)
	pm.RecordGauge("estimation_unique_ideas", 17, nil)

	assert.Equal(t, 17.0, testutil.ToFloat64(pm.systemGauges.WithLabelValues("estimation_unique_ideas")))
}

func TestPrometheusMetrics_RecordLatencyAndHistogram(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	// Histogram observation paths only need to not panic and to route to
	// the right collector; values are checked via the counter of samples.
	pm.RecordLatency("estimation_run", 150*time.Millisecond, nil)
	pm.RecordHistogram("estimation_iterations", 37, nil)
	pm.RecordHistogram("unrouted_metric", 1.5, nil)

	assert.Equal(t, 1, testutil.CollectAndCount(pm.iterationsUsed))
}
