package estimator

import "math"

// clamp restricts value to [lower, upper].
func clamp(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

// stableSigmoid computes 1/(1+exp(-x)) without overflow for large |x|.
// It branches on the sign of the argument and only ever exponentiates the
// negative magnitude, which keeps exp bounded by 1.
func stableSigmoid(x float64) float64 {
	if x >= 0 {
		z := math.Exp(-x)
		return 1.0 / (1.0 + z)
	}
	z := math.Exp(x)
	return z / (1.0 + z)
}

// percentile computes a linearly interpolated percentile from values sorted
// in ascending order. q is a quantile in [0, 1]; the result interpolates
// between the floor and ceiling of q*(n-1).
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0.0
	}
	q = clamp(q, 0.0, 1.0)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower]*(1.0-weight) + sorted[upper]*weight
}
