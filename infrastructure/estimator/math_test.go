package estimator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStableSigmoid(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{name: "zero", x: 0, expected: 0.5},
		{name: "large positive saturates to one", x: 1000, expected: 1.0},
		{name: "large negative saturates to zero", x: -1000, expected: 0.0},
		{name: "moderate positive", x: 2, expected: 0.8807970779778823},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stableSigmoid(tt.x)
			assert.InDelta(t, tt.expected, got, 1e-12)
			assert.False(t, math.IsNaN(got))
			assert.False(t, math.IsInf(got, 0))
		})
	}
}

func TestStableSigmoid_Symmetry(t *testing.T) {
	for _, x := range []float64{0.1, 1, 3, 10, 50, 700} {
		assert.InDelta(t, 1.0, stableSigmoid(x)+stableSigmoid(-x), 1e-12,
			"sigmoid(x)+sigmoid(-x) must equal 1 for x=%f", x)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -5.0, clamp(-7.3, -5, 5))
	assert.Equal(t, 5.0, clamp(12.0, -5, 5))
	assert.Equal(t, 0.25, clamp(0.25, -5, 5))
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		sorted   []float64
		q        float64
		expected float64
	}{
		{name: "empty returns zero", sorted: nil, q: 0.5, expected: 0},
		{name: "single value", sorted: []float64{3.5}, q: 0.975, expected: 3.5},
		{name: "exact index", sorted: []float64{1, 2, 3}, q: 0.5, expected: 2},
		{name: "interpolates between indices", sorted: []float64{0, 10}, q: 0.25, expected: 2.5},
		{name: "lower tail", sorted: []float64{1, 2, 3, 4, 5}, q: 0.025, expected: 1.1},
		{name: "upper tail", sorted: []float64{1, 2, 3, 4, 5}, q: 0.975, expected: 4.9},
		{name: "q clamped above", sorted: []float64{1, 2}, q: 1.5, expected: 2},
		{name: "q clamped below", sorted: []float64{1, 2}, q: -0.5, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, percentile(tt.sorted, tt.q), 1e-12)
		})
	}
}
