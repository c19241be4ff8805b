// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking turns flat retrieval candidates into a ranked, explainable
// list of professors: the aggregator joins candidates to authorships, the
// scorer collapses each professor's evidence into one score, and the
// assembler attaches display metadata. See docs/ARCHITECTURE.md § Ranking.
package ranking

import (
	"context"
	"fmt"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// AuthorshipSource resolves candidate papers to authorship rows. Satisfied
// by *store.Store.
type AuthorshipSource interface {
	CandidateAuthorships(ctx context.Context, paperIDs []string) ([]types.CandidateAuthorship, error)
}

// Aggregate joins retrieval candidates through the authorship bridge and
// groups the result per professor. A duplicate paper id in the input keeps
// the later occurrence's score; the mapping is keyed by paper id before the
// join. Papers with no authorship row are dropped silently, a data-quality
// gap rather than an error. It also returns the deduplicated score per
// paper id so downstream display can report the original retrieval scores.
func Aggregate(ctx context.Context, src AuthorshipSource, candidates []types.RetrievalCandidate) (map[int64][]types.PaperEvidence, map[string]float64, error) {
	scores := make(map[string]float64, len(candidates))
	ordered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, seen := scores[c.PaperID]; !seen {
			ordered = append(ordered, c.PaperID)
		}
		scores[c.PaperID] = c.Score
	}
	if len(ordered) == 0 {
		return map[int64][]types.PaperEvidence{}, scores, nil
	}

	authorships, err := src.CandidateAuthorships(ctx, ordered)
	if err != nil {
		return nil, nil, fmt.Errorf("joining candidate authorships: %w", err)
	}

	evidence := make(map[int64][]types.PaperEvidence)
	for _, a := range authorships {
		score, ok := scores[a.PaperID]
		if !ok {
			continue
		}
		evidence[a.ProfessorID] = append(evidence[a.ProfessorID], types.PaperEvidence{
			PaperID:        a.PaperID,
			Score:          score,
			Year:           a.Year,
			AuthorPosition: a.AuthorPosition,
			Citations:      a.Citations,
		})
	}
	return evidence, scores, nil
}
