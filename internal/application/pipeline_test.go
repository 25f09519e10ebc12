package application

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-podium/infrastructure/ingest"
	"github.com/ahrav/go-podium/internal/testutils"
)

var scenarioJudgments = []byte(`[
	{"winner": "A", "loser": "B", "model": "J1", "pos": 1},
	{"winner": "A", "loser": "B", "model": "J1", "pos": -1},
	{"winner": "A", "loser": "C", "model": "J1", "pos": 1},
	{"winner": "B", "loser": "C", "model": "J1", "pos": 1}
]`)

var scenarioCalibration = []byte(`{"judges": {"J1": {"rho": 1.0}}}`)

func newTestPipeline(t *testing.T, mutate func(*Config)) *Pipeline {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Bootstrap = 10
	if mutate != nil {
		mutate(&cfg)
	}
	pipeline, err := NewPipeline(cfg)
	require.NoError(t, err)
	return pipeline
}

func TestNewPipeline_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinMatches = 0
	_, err := NewPipeline(cfg)
	assert.Error(t, err)
}

func TestPipeline_Run_Scenario(t *testing.T) {
	pipeline := newTestPipeline(t, func(c *Config) { c.MinMatches = 1 })

	result, err := pipeline.Run(context.Background(), scenarioJudgments, scenarioCalibration)
	require.NoError(t, err)
	report := result.Report

	assert.Equal(t, 4, report.Metadata.TotalJudgments)
	assert.Equal(t, 4, report.Metadata.ValidJudgments)
	assert.Equal(t, 3, report.Metadata.UniqueIdeas)
	assert.Equal(t, 1, report.Metadata.UniqueJudges)
	assert.NotEmpty(t, report.Metadata.RunID)

	require.Len(t, report.Rankings, 3)
	assert.Equal(t, []string{"A", "B", "C"},
		[]string{report.Rankings[0].ID, report.Rankings[1].ID, report.Rankings[2].ID})
	assert.Equal(t, []int{1, 2, 3},
		[]int{report.Rankings[0].Rank, report.Rankings[1].Rank, report.Rankings[2].Rank})

	sum := 0.0
	for _, entry := range report.Rankings {
		sum += entry.Theta
	}
	assert.Less(t, math.Abs(sum), 1e-6)

	assert.Empty(t, report.InsufficientMatches)
	require.Len(t, report.JudgeDiagnostics, 1)
	assert.Equal(t, "J1", report.JudgeDiagnostics[0].Model)
	assert.Equal(t, 1.0, report.JudgeDiagnostics[0].Rho)
	assert.Equal(t, 4, report.JudgeDiagnostics[0].TotalJudgments)
}

func TestPipeline_Run_ThresholdExclusion(t *testing.T) {
	pipeline := newTestPipeline(t, func(c *Config) { c.MinMatches = 3 })

	result, err := pipeline.Run(context.Background(), scenarioJudgments, scenarioCalibration)
	require.NoError(t, err)

	// A and B have 3 matches each; C only 2 and must be excluded.
	ids := make([]string, 0, len(result.Report.Rankings))
	for _, entry := range result.Report.Rankings {
		ids = append(ids, entry.ID)
	}
	assert.NotContains(t, ids, "C")

	require.Len(t, result.Report.InsufficientMatches, 1)
	assert.Equal(t, "C", result.Report.InsufficientMatches[0].ID)
	assert.Equal(t, 2, result.Report.InsufficientMatches[0].Matches)
}

func TestPipeline_Run_MissingJudgeWarnsAndDefaults(t *testing.T) {
	pipeline := newTestPipeline(t, func(c *Config) { c.MinMatches = 1 })

	result, err := pipeline.Run(context.Background(), scenarioJudgments, []byte(`{"judges": {}}`))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `judge "J1" missing calibration rho`)

	require.Len(t, result.Report.JudgeDiagnostics, 1)
	assert.Equal(t, 0.5, result.Report.JudgeDiagnostics[0].Rho)
	// The run still produces full output.
	assert.Len(t, result.Report.Rankings, 3)
}

func TestPipeline_Run_RecordsPerRecordErrors(t *testing.T) {
	judgments := []byte(`[
		{"winner": "A", "loser": "A", "model": "J1"},
		{"winner": "A", "loser": "B", "model": "J1"}
	]`)
	pipeline := newTestPipeline(t, func(c *Config) { c.MinMatches = 1 })

	result, err := pipeline.Run(context.Background(), judgments, scenarioCalibration)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "winner equal to loser")
	assert.Equal(t, 2, result.Report.Metadata.TotalJudgments)
	assert.Equal(t, 1, result.Report.Metadata.ValidJudgments)
}

func TestPipeline_Run_DegradesGracefullyWithNoValidJudgments(t *testing.T) {
	pipeline := newTestPipeline(t, nil)

	result, err := pipeline.Run(context.Background(), []byte(`[]`), scenarioCalibration)
	require.NoError(t, err)

	assert.Zero(t, result.Report.Metadata.ValidJudgments)
	assert.True(t, result.Report.Metadata.Converged)
	assert.Zero(t, result.Report.Metadata.IterationsUsed)
	assert.Empty(t, result.Report.Rankings)
	assert.Empty(t, result.Report.InsufficientMatches)
}

func TestPipeline_Run_FatalOnNonArrayJudgments(t *testing.T) {
	pipeline := newTestPipeline(t, nil)

	_, err := pipeline.Run(context.Background(), []byte(`{"winner": "A"}`), scenarioCalibration)
	assert.ErrorIs(t, err, ingest.ErrNotArray)
}

func TestPipeline_Run_Deterministic(t *testing.T) {
	scenario := testutils.DefaultScenario()
	scenario.Judgments = 100
	judgmentsRaw := testutils.JudgmentsJSON(testutils.GenerateJudgments(scenario))
	calibrationRaw := testutils.CalibrationJSON(scenario)

	pipeline := newTestPipeline(t, func(c *Config) { c.Bootstrap = 20 })

	first, err := pipeline.Run(context.Background(), judgmentsRaw, calibrationRaw)
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background(), judgmentsRaw, calibrationRaw)
	require.NoError(t, err)

	// Everything except the per-run identifiers and timings is
	// bit-identical across runs with the same seed.
	assert.Equal(t, first.Report.Rankings, second.Report.Rankings)
	assert.Equal(t, first.Report.InsufficientMatches, second.Report.InsufficientMatches)
	assert.Equal(t, first.Report.JudgeDiagnostics, second.Report.JudgeDiagnostics)
}

func TestPipeline_Validate_ShortCircuits(t *testing.T) {
	pipeline := newTestPipeline(t, nil)

	judgments := []byte(`[
		{"winner": "A", "loser": "A", "model": "J1"},
		{"winner": "A", "loser": "B", "model": "J1"}
	]`)
	report, warnings, err := pipeline.Validate(context.Background(), judgments, scenarioCalibration)
	require.NoError(t, err)

	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Metadata.TotalJudgments)
	assert.Equal(t, 1, report.Metadata.ValidJudgments)
	assert.Equal(t, 2, report.Metadata.UniqueIdeas)
	assert.Empty(t, warnings)
}

func TestPipeline_Validate_EmitsEmptyErrorArray(t *testing.T) {
	pipeline := newTestPipeline(t, nil)

	report, _, err := pipeline.Validate(context.Background(), scenarioJudgments, scenarioCalibration)
	require.NoError(t, err)
	assert.True(t, report.Valid)

	// The errors field serializes as [] rather than null.
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"errors":[]`)
}
