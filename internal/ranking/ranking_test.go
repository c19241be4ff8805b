// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/advisor-match/pkg/types"
)

const testYear = 2026

func defaultScorer() *Scorer {
	return NewScorer(types.DefaultRankingConfig())
}

func paper(id string, score float64, year, position, citations int) types.PaperEvidence {
	return types.PaperEvidence{PaperID: id, Score: score, Year: year, AuthorPosition: position, Citations: citations}
}

func scoreSingle(t *testing.T, p types.PaperEvidence) types.ScoredProfessor {
	t.Helper()
	scored := defaultScorer().Score(map[int64][]types.PaperEvidence{1: {p}}, testYear)
	require.Len(t, scored, 1)
	return scored[0]
}

func TestScoreWorkedExample(t *testing.T) {
	// one current-year first-author paper with raw score 0.8 and no
	// citations: weighted 0.8*1.0*1.2 = 0.96, activity 0.05, capped at 1.0
	sp := scoreSingle(t, paper("W1", 0.8, testYear, 1, 0))

	assert.InDelta(t, 1.0, sp.AvgRecencyWeight, 1e-9)
	assert.InDelta(t, 0.8, sp.AvgSimilarity, 1e-9)
	assert.InDelta(t, 0.05, sp.ActivityBonus, 1e-9)
	assert.Zero(t, sp.CitationImpact)
	assert.Equal(t, 1.0, sp.FinalScore)
	assert.Equal(t, 1, sp.MatchingPapers)
	assert.Equal(t, []string{"W1"}, sp.EvidencePaperIDs)
}

func TestScoreBounds(t *testing.T) {
	papers := []types.PaperEvidence{
		paper("W1", 0.99, testYear, 1, 100000),
		paper("W2", 0.98, testYear, 1, 100000),
		paper("W3", 0.97, testYear, 1, 100000),
		paper("W4", 0.96, testYear, 1, 100000),
		paper("W5", 0.95, testYear, 1, 100000),
	}
	scored := defaultScorer().Score(map[int64][]types.PaperEvidence{1: papers}, testYear)
	require.Len(t, scored, 1)

	assert.Equal(t, 1.0, scored[0].FinalScore)
	assert.Equal(t, 1.0, scored[0].CitationImpact, "citation term clamps to 1")
}

func TestRecencyWeight(t *testing.T) {
	s := defaultScorer()
	tests := []struct {
		year int
		want float64
	}{
		{testYear, 1.0},
		{testYear - 1, math.Exp(-0.05)},
		{testYear - 10, math.Exp(-0.5)},
		{0, 0.5},
		{testYear + 1, 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, s.recencyWeight(tt.year, testYear), 1e-12, "year %d", tt.year)
	}
}

func TestRecencyMonotonic(t *testing.T) {
	older := scoreSingle(t, paper("W1", 0.6, 2015, 2, 0))
	newer := scoreSingle(t, paper("W1", 0.6, 2024, 2, 0))

	assert.Greater(t, newer.AvgRecencyWeight, older.AvgRecencyWeight)
	assert.GreaterOrEqual(t, newer.FinalScore, older.FinalScore)
}

func TestFirstAuthorNeverDecreases(t *testing.T) {
	second := scoreSingle(t, paper("W1", 0.6, 2023, 2, 0))
	first := scoreSingle(t, paper("W1", 0.6, 2023, 1, 0))
	unknown := scoreSingle(t, paper("W1", 0.6, 2023, 0, 0))

	assert.Greater(t, first.FinalScore, second.FinalScore)
	assert.Equal(t, second.FinalScore, unknown.FinalScore, "unknown position gets no bonus")
}

func TestActivityBonusMonotonicAndCapped(t *testing.T) {
	s := defaultScorer()
	prev := -1.0
	for recent := 0; recent <= 8; recent++ {
		papers := make([]types.PaperEvidence, 0, recent+1)
		// one old paper keeps the set non-empty at recent == 0
		papers = append(papers, paper("old", 0.5, 2010, 2, 0))
		for i := 0; i < recent; i++ {
			papers = append(papers, paper("recent", 0.5, testYear, 2, 0))
		}
		scored := s.Score(map[int64][]types.PaperEvidence{1: papers}, testYear)
		require.Len(t, scored, 1)

		bonus := scored[0].ActivityBonus
		assert.GreaterOrEqual(t, bonus, prev)
		assert.LessOrEqual(t, bonus, 0.2)
		prev = bonus
	}
	assert.Equal(t, 0.2, prev, "bonus saturates at the cap")
}

func TestActivityCountsFullSetNotWindow(t *testing.T) {
	cfg := types.DefaultRankingConfig()
	cfg.TopNPerProfessor = 1
	s := NewScorer(cfg)

	// the recent paper scores too low for the window but still counts as activity
	papers := []types.PaperEvidence{
		paper("strong-old", 0.9, 2015, 2, 0),
		paper("weak-recent", 0.1, testYear, 2, 0),
	}
	scored := s.Score(map[int64][]types.PaperEvidence{1: papers}, testYear)
	require.Len(t, scored, 1)

	assert.Equal(t, []string{"strong-old"}, scored[0].EvidencePaperIDs)
	assert.InDelta(t, 0.05, scored[0].ActivityBonus, 1e-9)
	assert.Equal(t, 2, scored[0].MatchingPapers)
}

func TestEvidenceWindowTruncation(t *testing.T) {
	cfg := types.DefaultRankingConfig()
	cfg.TopNPerProfessor = 2
	s := NewScorer(cfg)

	papers := []types.PaperEvidence{
		paper("W3", 0.3, 2024, 2, 0),
		paper("W1", 0.9, 2024, 2, 0),
		paper("W2", 0.6, 2024, 2, 0),
	}
	scored := s.Score(map[int64][]types.PaperEvidence{1: papers}, testYear)
	require.Len(t, scored, 1)

	assert.Equal(t, []string{"W1", "W2"}, scored[0].EvidencePaperIDs)
	assert.InDelta(t, 0.75, scored[0].AvgSimilarity, 1e-9)
	assert.Equal(t, 3, scored[0].MatchingPapers)
}

func TestEvidenceWindowStableTieBreak(t *testing.T) {
	cfg := types.DefaultRankingConfig()
	cfg.TopNPerProfessor = 1
	s := NewScorer(cfg)

	// equal raw scores keep join order
	papers := []types.PaperEvidence{
		paper("Wfirst", 0.5, 2024, 2, 0),
		paper("Wsecond", 0.5, 2024, 2, 0),
	}
	scored := s.Score(map[int64][]types.PaperEvidence{1: papers}, testYear)
	require.Len(t, scored, 1)
	assert.Equal(t, []string{"Wfirst"}, scored[0].EvidencePaperIDs)
}

func TestCitationImpact(t *testing.T) {
	s := defaultScorer()
	assert.Zero(t, s.citationScore(0))
	assert.InDelta(t, math.Log10(10)/3, s.citationScore(9), 1e-12)
	assert.InDelta(t, 1.0, s.citationScore(999), 1e-9, "log10(1000)/3 = 1")
	assert.Equal(t, 1.0, s.citationScore(10_000_000))
}

func TestEmptyEvidenceExcluded(t *testing.T) {
	scored := defaultScorer().Score(map[int64][]types.PaperEvidence{
		1: {paper("W1", 0.5, 2024, 2, 0)},
		2: {},
		3: nil,
	}, testYear)

	require.Len(t, scored, 1)
	assert.Equal(t, int64(1), scored[0].ProfessorID)
}

func TestScoreOrderingDeterministic(t *testing.T) {
	evidence := map[int64][]types.PaperEvidence{
		5: {paper("W1", 0.5, 2024, 2, 0)},
		2: {paper("W1", 0.5, 2024, 2, 0)},
		9: {paper("W2", 0.9, 2024, 2, 0)},
	}
	scored := defaultScorer().Score(evidence, testYear)
	require.Len(t, scored, 3)

	assert.Equal(t, int64(9), scored[0].ProfessorID)
	// equal final scores tie-break by professor id
	assert.Equal(t, int64(2), scored[1].ProfessorID)
	assert.Equal(t, int64(5), scored[2].ProfessorID)
}

func TestRankTruncates(t *testing.T) {
	evidence := map[int64][]types.PaperEvidence{
		1: {paper("W1", 0.9, 2024, 2, 0)},
		2: {paper("W2", 0.5, 2024, 2, 0)},
		3: {paper("W3", 0.1, 2024, 2, 0)},
	}
	ranked := defaultScorer().Rank(evidence, testYear, 1)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(1), ranked[0].ProfessorID)

	assert.Empty(t, defaultScorer().Rank(nil, testYear, 1))
}
