// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"context"
	"fmt"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// MetadataSource resolves display metadata for ranked results. Satisfied by
// *store.Store. Lookups return nil with no error when the row is absent.
type MetadataSource interface {
	Professor(ctx context.Context, id int64) (*types.Professor, error)
	Publication(ctx context.Context, id string) (*types.Publication, error)
}

// EvidencePublication is one evidence paper with its original retrieval
// score, shown in evidence-window order.
type EvidencePublication struct {
	types.Publication
	RawScore float64 `json:"raw_score"`
}

// RankedProfessor is one final result row: the score breakdown plus the
// professor's metadata and a bounded evidence sample.
type RankedProfessor struct {
	types.ScoredProfessor
	Professor types.Professor       `json:"professor"`
	Evidence  []EvidencePublication `json:"evidence,omitempty"`
}

// Assemble merges scored professors with store metadata, preserving the
// scorer's order. A professor whose metadata row has gone missing is dropped
// without failing the request; that is a consistency gap in the corpus, not
// a caller error. rawScores maps paper id to the deduplicated retrieval
// score from the aggregation step. displayCount bounds the evidence
// publications attached per result; includeEvidence false skips publication
// lookups entirely.
func Assemble(ctx context.Context, src MetadataSource, scored []types.ScoredProfessor, rawScores map[string]float64, displayCount int, includeEvidence bool) ([]RankedProfessor, error) {
	results := make([]RankedProfessor, 0, len(scored))
	for _, sp := range scored {
		prof, err := src.Professor(ctx, sp.ProfessorID)
		if err != nil {
			return nil, fmt.Errorf("loading professor %d: %w", sp.ProfessorID, err)
		}
		if prof == nil {
			continue
		}

		result := RankedProfessor{ScoredProfessor: sp, Professor: *prof}
		if includeEvidence {
			result.Evidence, err = evidencePublications(ctx, src, sp.EvidencePaperIDs, rawScores, displayCount)
			if err != nil {
				return nil, err
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func evidencePublications(ctx context.Context, src MetadataSource, paperIDs []string, rawScores map[string]float64, displayCount int) ([]EvidencePublication, error) {
	var out []EvidencePublication
	for _, paperID := range paperIDs {
		if displayCount > 0 && len(out) >= displayCount {
			break
		}
		pub, err := src.Publication(ctx, paperID)
		if err != nil {
			return nil, fmt.Errorf("loading publication %s: %w", paperID, err)
		}
		if pub == nil {
			continue
		}
		out = append(out, EvidencePublication{Publication: *pub, RawScore: rawScores[paperID]})
	}
	return out, nil
}
