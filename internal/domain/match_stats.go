package domain

import "sort"

// MatchStats holds per-idea win/loss/match counts and the sorted identifier
// sets derived from a normalized judgment list. Every idea that appears in
// any judgment is present in all three count maps, defaulting to zero.
type MatchStats struct {
	// Wins counts judgments in which the idea was the winner.
	Wins map[string]int

	// Losses counts judgments in which the idea was the loser.
	Losses map[string]int

	// Matches is Wins + Losses per idea.
	Matches map[string]int

	// IdeaIDs lists every distinct idea identifier, sorted ascending.
	IdeaIDs []string

	// JudgeIDs lists every distinct judge identifier, sorted ascending.
	JudgeIDs []string
}

// BuildMatchStats folds a judgment list into per-idea counts and sorted
// identifier sets. The fold is pure and stateless: the result depends only
// on the multiset of judgments, never on their order.
func BuildMatchStats(judgments []Judgment) MatchStats {
	stats := MatchStats{
		Wins:    make(map[string]int),
		Losses:  make(map[string]int),
		Matches: make(map[string]int),
	}

	judgeSet := make(map[string]struct{})
	for _, j := range judgments {
		stats.Wins[j.Winner]++
		stats.Losses[j.Loser]++
		stats.Matches[j.Winner]++
		stats.Matches[j.Loser]++
		judgeSet[j.Judge] = struct{}{}
	}

	stats.IdeaIDs = make([]string, 0, len(stats.Matches))
	for idea := range stats.Matches {
		stats.IdeaIDs = append(stats.IdeaIDs, idea)
	}
	sort.Strings(stats.IdeaIDs)

	// Matches already contains every idea, but Wins and Losses only hold
	// the incremented side. Zero-fill so lookups never distinguish
	// "absent" from "never won".
	for _, idea := range stats.IdeaIDs {
		if _, ok := stats.Wins[idea]; !ok {
			stats.Wins[idea] = 0
		}
		if _, ok := stats.Losses[idea]; !ok {
			stats.Losses[idea] = 0
		}
	}

	stats.JudgeIDs = make([]string, 0, len(judgeSet))
	for judge := range judgeSet {
		stats.JudgeIDs = append(stats.JudgeIDs, judge)
	}
	sort.Strings(stats.JudgeIDs)

	return stats
}

// JudgmentCounts returns the number of judgments rendered by each judge.
func JudgmentCounts(judgments []Judgment) map[string]int {
	counts := make(map[string]int, 8)
	for _, j := range judgments {
		counts[j.Judge]++
	}
	return counts
}
