package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatchStats(t *testing.T) {
	judgments := []Judgment{
		{Winner: "a", Loser: "b", Judge: "j1", Pos: PosFirst},
		{Winner: "a", Loser: "c", Judge: "j2", Pos: PosSecond},
		{Winner: "b", Loser: "a", Judge: "j1", Pos: PosFirst},
	}

	stats := BuildMatchStats(judgments)

	assert.Equal(t, 2, stats.Wins["a"])
	assert.Equal(t, 1, stats.Losses["a"])
	assert.Equal(t, 3, stats.Matches["a"])
	assert.Equal(t, 1, stats.Wins["b"])
	assert.Equal(t, 1, stats.Losses["b"])
	assert.Equal(t, 2, stats.Matches["b"])

	assert.Equal(t, []string{"a", "b", "c"}, stats.IdeaIDs)
	assert.Equal(t, []string{"j1", "j2"}, stats.JudgeIDs)
}

func TestBuildMatchStats_ZeroFillsCounts(t *testing.T) {
	// "c" only ever loses; its win count must exist and be zero rather
	// than absent.
	stats := BuildMatchStats([]Judgment{{Winner: "a", Loser: "c", Judge: "j1", Pos: PosFirst}})

	wins, ok := stats.Wins["c"]
	require.True(t, ok)
	assert.Zero(t, wins)

	losses, ok := stats.Losses["a"]
	require.True(t, ok)
	assert.Zero(t, losses)
}

func TestBuildMatchStats_OrderIndependent(t *testing.T) {
	forward := []Judgment{
		{Winner: "x", Loser: "y", Judge: "j1", Pos: PosFirst},
		{Winner: "y", Loser: "z", Judge: "j2", Pos: PosSecond},
		{Winner: "z", Loser: "x", Judge: "j3", Pos: PosFirst},
	}
	reversed := []Judgment{forward[2], forward[1], forward[0]}

	assert.Equal(t, BuildMatchStats(forward), BuildMatchStats(reversed))
}

func TestBuildMatchStats_Empty(t *testing.T) {
	stats := BuildMatchStats(nil)
	assert.Empty(t, stats.IdeaIDs)
	assert.Empty(t, stats.JudgeIDs)
	assert.Empty(t, stats.Matches)
}

func TestCalibrationProfile_Resolve(t *testing.T) {
	profile := CalibrationProfile{"j1": 0.9}

	resolved := profile.Resolve("j1")
	assert.Equal(t, 0.9, resolved.Rho)
	assert.False(t, resolved.UsedDefault)

	resolved = profile.Resolve("j2")
	assert.Equal(t, DefaultRho, resolved.Rho)
	assert.True(t, resolved.UsedDefault)
}

func TestJudgmentCounts(t *testing.T) {
	counts := JudgmentCounts([]Judgment{
		{Winner: "a", Loser: "b", Judge: "j1", Pos: PosFirst},
		{Winner: "b", Loser: "a", Judge: "j1", Pos: PosSecond},
		{Winner: "a", Loser: "b", Judge: "j2", Pos: PosFirst},
	})
	assert.Equal(t, map[string]int{"j1": 2, "j2": 1}, counts)
}
