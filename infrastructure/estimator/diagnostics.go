package estimator

import (
	"github.com/ahrav/go-podium/internal/domain"
)

// Diagnostic note strings distinguishing the rho provenance per judge.
const (
	noteCalibrated = "rho loaded from calibration"
	noteDefaulted  = "rho defaulted; judge missing from calibration"
)

// BuildJudgeDiagnostics assembles the per-judge audit projection: fixed
// calibration rho (with the default path made explicit in the note),
// estimated position bias, and judgment volume. Entries are ordered by the
// already-sorted judge identifiers. Purely a read-only projection of
// computed state.
func BuildJudgeDiagnostics(
	judgments []domain.Judgment,
	stats domain.MatchStats,
	profile domain.CalibrationProfile,
	pi map[string]float64,
) []domain.JudgeDiagnostic {
	counts := domain.JudgmentCounts(judgments)

	diagnostics := make([]domain.JudgeDiagnostic, 0, len(stats.JudgeIDs))
	for _, judge := range stats.JudgeIDs {
		resolved := profile.Resolve(judge)
		note := noteCalibrated
		if resolved.UsedDefault {
			note = noteDefaulted
		}
		diagnostics = append(diagnostics, domain.JudgeDiagnostic{
			Model:          judge,
			Rho:            resolved.Rho,
			EstimatedPi:    pi[judge],
			TotalJudgments: counts[judge],
			Note:           note,
		})
	}
	return diagnostics
}
