// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"math"
	"sort"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// neutralRecencyWeight stands in for the recency factor when a paper's year
// is unknown.
const neutralRecencyWeight = 0.5

// Scorer collapses per-professor evidence sets into final scores. Stateless
// apart from its config; safe for concurrent use.
type Scorer struct {
	cfg types.RankingConfig
}

func NewScorer(cfg types.RankingConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score ranks every professor with a non-empty evidence set. asOfYear is the
// reference year for recency and activity so results are reproducible for a
// fixed corpus state; callers pass the current calendar year in production.
// The output is ordered by final score descending, ties broken by professor
// id ascending.
func (s *Scorer) Score(evidence map[int64][]types.PaperEvidence, asOfYear int) []types.ScoredProfessor {
	scored := make([]types.ScoredProfessor, 0, len(evidence))
	for professorID, papers := range evidence {
		sp, ok := s.scoreOne(professorID, papers, asOfYear)
		if !ok {
			continue
		}
		scored = append(scored, sp)
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].FinalScore != scored[j].FinalScore {
			return scored[i].FinalScore > scored[j].FinalScore
		}
		return scored[i].ProfessorID < scored[j].ProfessorID
	})
	return scored
}

// Rank scores and truncates to the top k professors.
func (s *Scorer) Rank(evidence map[int64][]types.PaperEvidence, asOfYear, k int) []types.ScoredProfessor {
	scored := s.Score(evidence, asOfYear)
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// scoreOne computes the full score breakdown for one professor. Returns
// false for empty evidence so no mean ever divides by zero.
func (s *Scorer) scoreOne(professorID int64, papers []types.PaperEvidence, asOfYear int) (types.ScoredProfessor, bool) {
	if len(papers) == 0 {
		return types.ScoredProfessor{}, false
	}

	// Evidence window: top N by raw score, stable so equal scores keep
	// their join order.
	window := make([]types.PaperEvidence, len(papers))
	copy(window, papers)
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Score > window[j].Score
	})
	if n := s.cfg.TopNPerProfessor; n > 0 && len(window) > n {
		window = window[:n]
	}
	if len(window) == 0 {
		return types.ScoredProfessor{}, false
	}

	var sumWeighted, sumSimilarity, sumRecency, sumCitation float64
	evidenceIDs := make([]string, 0, len(window))
	for _, p := range window {
		recency := s.recencyWeight(p.Year, asOfYear)
		weighted := p.Score * recency
		if p.AuthorPosition == 1 {
			weighted *= 1 + s.cfg.FirstAuthorBonus
		}
		sumWeighted += weighted
		sumSimilarity += p.Score
		sumRecency += recency
		sumCitation += s.citationScore(p.Citations)
		evidenceIDs = append(evidenceIDs, p.PaperID)
	}
	n := float64(len(window))

	// Activity looks at the full evidence set, not just the window: it
	// measures recent output overall, not query relevance.
	recentCount := 0
	for _, p := range papers {
		if p.Year > 0 && p.Year >= asOfYear-s.cfg.ActivityThresholdYears {
			recentCount++
		}
	}
	activityBonus := math.Min(float64(recentCount)*s.cfg.ActivityBonusPerPaper, s.cfg.MaxActivityBonus)

	avgWeighted := sumWeighted / n
	citationImpact := sumCitation / n
	finalScore := math.Min(avgWeighted+activityBonus+citationImpact*s.cfg.CitationWeight, 1.0)

	return types.ScoredProfessor{
		ProfessorID:      professorID,
		FinalScore:       finalScore,
		AvgSimilarity:    sumSimilarity / n,
		AvgRecencyWeight: sumRecency / n,
		ActivityBonus:    activityBonus,
		CitationImpact:   citationImpact,
		MatchingPapers:   len(papers),
		EvidencePaperIDs: evidenceIDs,
	}, true
}

func (s *Scorer) recencyWeight(year, asOfYear int) float64 {
	if year <= 0 {
		return neutralRecencyWeight
	}
	age := float64(asOfYear - year)
	if age < 0 {
		age = 0
	}
	return math.Exp(-s.cfg.DecayRate * age)
}

// citationScore is the clamped log-normalized citation term. Roughly 1000
// citations saturate at the defaults.
func (s *Scorer) citationScore(citations int) float64 {
	if citations <= 0 {
		return 0
	}
	score := math.Log(1+float64(citations)) / math.Log(s.cfg.CitationLogBase) / s.cfg.CitationLogDivisor
	if score > 1 {
		return 1
	}
	return score
}
