package estimator

import (
	"context"
	"fmt"
	"math"

	"github.com/ahrav/go-podium/internal/domain"
	"github.com/ahrav/go-podium/internal/ports"
)

var _ ports.Fitter = (*MMFitter)(nil)

// hessFloor prevents division blow-up in the theta update when the model is
// already near-certain about an outcome (p close to 0 or 1).
const hessFloor = 1e-9

// MMFitter fits per-idea quality (theta) and per-judge position bias (pi)
// to pairwise judgments under the model
//
//	P(i beats j | judge k, position s) = sigmoid(rho_k*(theta_i-theta_j) + pi_k*s)
//
// where rho_k is a fixed reliability read from the calibration profile.
// Theta follows Newton-like minorization-maximization rounds; pi has a
// closed-form ridge solution that does not depend on theta.
//
// Concurrency: the fitter is stateless and thread-safe. Every Fit call
// allocates fresh per-call state, which is what makes it safe to invoke
// once per bootstrap resample with no coordination.
type MMFitter struct {
	// name is the unique identifier for this fitter instance.
	name string
	// config contains validated configuration parameters.
	// Immutable after creation to ensure thread safety.
	config MMConfig
}

// MMConfig defines the configuration parameters for the MMFitter.
// All fields are validated during construction.
type MMConfig struct {
	// Iterations is the MM round budget. Zero still runs a single round:
	// the effective budget is max(1, Iterations).
	Iterations int `yaml:"iterations" json:"iterations" validate:"min=0"`

	// PiLambda is the L2 regularization strength for position-bias
	// shrinkage.
	PiLambda float64 `yaml:"pi_lambda" json:"pi_lambda" validate:"min=0"`

	// StepClamp bounds each theta update step, preventing overshoot and
	// oscillation on sparse data. The interaction between the step clamp
	// and the value clamp near the boundary is empirical, so both are
	// configurable rather than hard-coded.
	StepClamp float64 `yaml:"step_clamp" json:"step_clamp" validate:"gt=0"`

	// ValueClamp bounds every theta and pi value to [-ValueClamp, ValueClamp].
	ValueClamp float64 `yaml:"value_clamp" json:"value_clamp" validate:"gt=0"`

	// Tolerance is the convergence threshold on the max-abs theta delta
	// between consecutive rounds.
	Tolerance float64 `yaml:"tolerance" json:"tolerance" validate:"gt=0"`
}

// DefaultMMConfig returns an MMConfig with the standard defaults:
// 100 iterations, lambda 0.1, step clamp 1, value clamp 5, tolerance 1e-6.
func DefaultMMConfig() MMConfig {
	return MMConfig{
		Iterations: 100,
		PiLambda:   0.1,
		StepClamp:  1.0,
		ValueClamp: 5.0,
		Tolerance:  1e-6,
	}
}

// NewMMFitter creates an MMFitter with the specified configuration.
// Returns ErrEmptyName for an empty name or a wrapped validation error for
// an invalid configuration. The returned fitter is immutable and safe for
// concurrent use.
func NewMMFitter(name string, config MMConfig) (*MMFitter, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &MMFitter{name: name, config: config}, nil
}

// Name returns the unique identifier for this fitter instance.
func (f *MMFitter) Name() string { return f.name }

// Config returns the fitter's immutable configuration.
func (f *MMFitter) Config() MMConfig { return f.config }

// Fit runs the MM estimation loop over the given parameter universe.
// Observed win counts are folded from the judgments themselves so a caller
// may fit a resampled judgment list against the full idea/judge universe.
// Judge reliability comes from the profile (DefaultRho for uncalibrated
// judges) and is never modified. Fit never fails: zero ideas or zero
// judgments yield all-zero theta/pi with zero iterations, marked converged.
// A pathological judgment set that produces zero curvature for an idea
// simply results in a zero step for that idea.
//
// The context is accepted for interface symmetry; the iteration budget is
// the only bound on the loop, so the fit is never interrupted mid-round.
func (f *MMFitter) Fit(
	_ context.Context,
	judgments []domain.Judgment,
	ideaIDs, judgeIDs []string,
	profile domain.CalibrationProfile,
) domain.EstimationResult {
	theta := make(map[string]float64, len(ideaIDs))
	for _, idea := range ideaIDs {
		theta[idea] = 0.0
	}
	pi := make(map[string]float64, len(judgeIDs))
	for _, judge := range judgeIDs {
		pi[judge] = 0.0
	}

	if len(ideaIDs) == 0 || len(judgments) == 0 {
		return domain.EstimationResult{Theta: theta, Pi: pi, IterationsUsed: 0, Converged: true}
	}

	// Observed wins and the ridge pi inputs depend only on the judgment
	// multiset, so they are folded once up front. Pi is still assigned
	// inside the loop to keep the update order: the first round's expected
	// wins are computed with pi = 0.
	wins := make(map[string]int, len(ideaIDs))
	posSum := make(map[string]float64, len(judgeIDs))
	count := make(map[string]int, len(judgeIDs))
	for _, j := range judgments {
		wins[j.Winner]++
		posSum[j.Judge] += float64(j.Pos)
		count[j.Judge]++
	}

	bound := f.config.ValueClamp
	converged := false
	iterationsUsed := 0

	for iteration := 1; iteration <= max(1, f.config.Iterations); iteration++ {
		oldTheta := make(map[string]float64, len(theta))
		for idea, v := range theta {
			oldTheta[idea] = v
		}

		// E-step: accumulate expected wins and curvature into fresh
		// per-round maps. No accumulator state survives across rounds.
		expectedWins := make(map[string]float64, len(theta))
		curvature := make(map[string]float64, len(theta))
		for _, j := range judgments {
			rho := profile.Resolve(j.Judge).Rho
			score := rho*(theta[j.Winner]-theta[j.Loser]) + pi[j.Judge]*float64(j.Pos)
			pWinner := stableSigmoid(score)

			expectedWins[j.Winner] += pWinner
			expectedWins[j.Loser] += 1.0 - pWinner

			hess := math.Max(hessFloor, rho*rho*pWinner*(1.0-pWinner))
			curvature[j.Winner] += hess
			curvature[j.Loser] += hess
		}

		// Theta update: clamped Newton-like step per idea.
		for _, idea := range ideaIDs {
			numer := float64(wins[idea]) - expectedWins[idea]
			step := 0.0
			if denom := curvature[idea]; denom > 0 {
				step = numer / denom
			}
			step = clamp(step, -f.config.StepClamp, f.config.StepClamp)
			theta[idea] = clamp(theta[idea]+step, -bound, bound)
		}

		// Pi update: closed-form ridge solution with extra shrinkage.
		// A judge with zero judgments is never touched and stays 0.
		for _, judge := range judgeIDs {
			n := count[judge]
			if n <= 0 {
				continue
			}
			rawPi := posSum[judge] / (float64(n) + 2.0*f.config.PiLambda)
			shrink := 1.0 + 2.0*f.config.PiLambda/float64(n)
			pi[judge] = clamp(rawPi/shrink, -bound, bound)
		}

		f.recenter(theta)

		maxAbsDelta := 0.0
		for _, idea := range ideaIDs {
			if diff := math.Abs(theta[idea] - oldTheta[idea]); diff > maxAbsDelta {
				maxAbsDelta = diff
			}
		}

		iterationsUsed = iteration
		if maxAbsDelta < f.config.Tolerance {
			converged = true
			break
		}
	}

	return domain.EstimationResult{
		Theta:          theta,
		Pi:             pi,
		IterationsUsed: iterationsUsed,
		Converged:      converged,
	}
}

// recenter pins theta to the zero-mean gauge: the Bradley-Terry likelihood
// is invariant to a global shift, so the estimate is only identifiable up
// to an additive constant. Clamping after the shift can move the mean off
// zero again, so the mean is subtracted once more after clamping.
func (f *MMFitter) recenter(theta map[string]float64) {
	if len(theta) == 0 {
		return
	}
	mean := 0.0
	for _, v := range theta {
		mean += v
	}
	mean /= float64(len(theta))
	for idea := range theta {
		theta[idea] = clamp(theta[idea]-mean, -f.config.ValueClamp, f.config.ValueClamp)
	}

	meanAfter := 0.0
	for _, v := range theta {
		meanAfter += v
	}
	meanAfter /= float64(len(theta))
	for idea := range theta {
		theta[idea] -= meanAfter
	}
}
