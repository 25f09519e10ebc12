package domain

import "time"

// EstimationResult is the output of one parameter-estimation pass. It is
// produced fresh per call and never mutated afterward; downstream components
// only read it.
type EstimationResult struct {
	// Theta maps idea identifiers to fitted latent quality scores.
	// Invariants: sum over all ideas is approximately zero, and every
	// value lies in the configured clamp range.
	Theta map[string]float64

	// Pi maps judge identifiers to fitted position-bias estimates,
	// clamped to the same range as Theta.
	Pi map[string]float64

	// IterationsUsed is the number of MM rounds actually executed.
	IterationsUsed int

	// Converged reports whether the max-abs theta delta fell below the
	// convergence tolerance before the iteration budget ran out.
	Converged bool
}

// BootstrapStats summarizes the sampling distribution of one idea's theta
// across bootstrap resamples.
type BootstrapStats struct {
	// Mu is the mean of the bootstrap draws.
	Mu float64 `json:"mu"`

	// Sigma is the population standard deviation of the draws.
	Sigma float64 `json:"sigma"`

	// CILower and CIUpper bound the central 95% of the draws, computed
	// via linear-interpolated percentiles at 0.025 and 0.975.
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
}

// PointMass returns degenerate statistics centered on theta, used when
// bootstrapping was disabled and no sampling distribution exists.
func PointMass(theta float64) BootstrapStats {
	return BootstrapStats{Mu: theta, Sigma: 0, CILower: theta, CIUpper: theta}
}

// RankingEntry is one idea in the ranked output.
type RankingEntry struct {
	ID      string  `json:"id"`
	Rank    int     `json:"rank"`
	Theta   float64 `json:"theta"`
	Mu      float64 `json:"mu"`
	Sigma   float64 `json:"sigma"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
}

// InsufficientEntry describes an idea excluded from the rankings for lack
// of evidence.
type InsufficientEntry struct {
	ID      string `json:"id"`
	Matches int    `json:"matches"`
	Reason  string `json:"reason"`
}

// JudgeDiagnostic is a read-only projection of per-judge state for audit:
// the fixed calibration rho, the estimated position bias, and the judge's
// judgment volume.
type JudgeDiagnostic struct {
	Model          string  `json:"model"`
	Rho            float64 `json:"rho"`
	EstimatedPi    float64 `json:"estimated_pi"`
	TotalJudgments int     `json:"total_judgments"`
	Note           string  `json:"note"`
}

// Metadata carries run-level counts and settings echoed into the report.
type Metadata struct {
	RunID            string  `json:"run_id"`
	TotalJudgments   int     `json:"total_judgments"`
	ValidJudgments   int     `json:"valid_judgments"`
	UniqueIdeas      int     `json:"unique_ideas"`
	UniqueJudges     int     `json:"unique_judges"`
	IterationsUsed   int     `json:"iterations_used"`
	Converged        bool    `json:"converged"`
	BootstrapSamples int     `json:"bootstrap_samples"`
	PiLambda         float64 `json:"pi_lambda"`
	MinMatches       int     `json:"min_matches"`
	ElapsedMs        int64   `json:"elapsed_ms"`
}

// Report is the full output of an estimation run.
type Report struct {
	Metadata            Metadata            `json:"metadata"`
	Rankings            []RankingEntry      `json:"rankings"`
	InsufficientMatches []InsufficientEntry `json:"insufficient_matches"`
	JudgeDiagnostics    []JudgeDiagnostic   `json:"judge_diagnostics"`
	Timestamp           time.Time           `json:"timestamp"`
}

// ValidationReport is the short-circuit output of validation mode: input
// accounting and accumulated normalization errors, produced before any
// fitting happens.
type ValidationReport struct {
	Valid    bool               `json:"valid"`
	Errors   []string           `json:"errors"`
	Metadata ValidationMetadata `json:"metadata"`
}

// ValidationMetadata is the count subset reported by validation mode.
type ValidationMetadata struct {
	TotalJudgments int `json:"total_judgments"`
	ValidJudgments int `json:"valid_judgments"`
	UniqueIdeas    int `json:"unique_ideas"`
	UniqueJudges   int `json:"unique_judges"`
}
