// Package domain contains the core types and pure logic of the
// paired-comparison estimation engine: judgments, calibration profiles,
// match statistics, and the result shapes produced by estimation.
package domain

// PosSign encodes which physical slot the winning idea occupied when the
// judgment was rendered. It is used to estimate and correct per-judge
// position bias.
type PosSign int

// Position slot indicators. PosFirst means the winner was shown in the
// first ("A"/left) slot, PosSecond in the second ("B"/right) slot.
const (
	PosFirst  PosSign = 1
	PosSecond PosSign = -1
)

// Judgment is the atomic unit of evidence: one pairwise comparison rendered
// by one judge. Judgments are immutable once normalized; Winner and Loser
// are guaranteed non-empty and distinct by the normalizer.
type Judgment struct {
	// Winner is the identifier of the idea that won the comparison.
	Winner string `json:"winner"`

	// Loser is the identifier of the idea that lost the comparison.
	Loser string `json:"loser"`

	// Judge identifies the model that rendered this judgment. Resolved from
	// the raw record's "model" field, falling back to "judge_id", then the
	// literal "unknown".
	Judge string `json:"judge"`

	// Pos records the slot the winner occupied when judged.
	Pos PosSign `json:"pos"`
}

// CalibrationProfile maps judge identifiers to their fixed reliability rho.
// The profile is produced by a separate offline calibration process and is
// never mutated by the estimation engine.
type CalibrationProfile map[string]float64

// DefaultRho is the reliability assigned to judges that appear in judgments
// but are absent from the calibration profile.
const DefaultRho = 0.5

// ResolvedRho is the outcome of looking up a judge's reliability. The
// default path is an explicit, observable signal rather than an implicit
// branch: callers emit a warning whenever UsedDefault is true.
type ResolvedRho struct {
	// Rho is the reliability to use for the judge.
	Rho float64

	// UsedDefault reports whether Rho is the fallback DefaultRho rather
	// than a calibrated value.
	UsedDefault bool
}

// Resolve looks up a judge's reliability, falling back to DefaultRho when
// the judge is not present in the profile.
func (p CalibrationProfile) Resolve(judge string) ResolvedRho {
	if rho, ok := p[judge]; ok {
		return ResolvedRho{Rho: rho}
	}
	return ResolvedRho{Rho: DefaultRho, UsedDefault: true}
}
