package estimator

import (
	"fmt"
	"sort"

	"github.com/ahrav/go-podium/internal/domain"
)

// BuildRankings partitions ideas into ranked entries (matches >= minMatches)
// and insufficient-evidence entries. Rankings sort by descending theta with
// ascending-identifier tie-breaking for full determinism; ranks are 1-based
// and contiguous. Ideas that were never bootstrapped carry point-mass
// statistics centered on their theta.
func BuildRankings(
	result domain.EstimationResult,
	bootstrapStats map[string]domain.BootstrapStats,
	stats domain.MatchStats,
	minMatches int,
) ([]domain.RankingEntry, []domain.InsufficientEntry) {
	sufficient := make([]string, 0, len(result.Theta))
	insufficient := make([]domain.InsufficientEntry, 0)

	for _, idea := range stats.IdeaIDs {
		if stats.Matches[idea] >= minMatches {
			sufficient = append(sufficient, idea)
			continue
		}
		insufficient = append(insufficient, domain.InsufficientEntry{
			ID:      idea,
			Matches: stats.Matches[idea],
			Reason:  fmt.Sprintf("below minimum %d matches", minMatches),
		})
	}

	sort.Slice(sufficient, func(a, b int) bool {
		ta, tb := result.Theta[sufficient[a]], result.Theta[sufficient[b]]
		if ta != tb {
			return ta > tb
		}
		return sufficient[a] < sufficient[b]
	})

	rankings := make([]domain.RankingEntry, 0, len(sufficient))
	for i, idea := range sufficient {
		b, ok := bootstrapStats[idea]
		if !ok {
			b = domain.PointMass(result.Theta[idea])
		}
		rankings = append(rankings, domain.RankingEntry{
			ID:      idea,
			Rank:    i + 1,
			Theta:   result.Theta[idea],
			Mu:      b.Mu,
			Sigma:   b.Sigma,
			CILower: b.CILower,
			CIUpper: b.CIUpper,
			Matches: stats.Matches[idea],
			Wins:    stats.Wins[idea],
			Losses:  stats.Losses[idea],
		})
	}

	return rankings, insufficient
}
