// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Embedder turns query text into a unit vector in the corpus embedding space.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex answers nearest-neighbor queries over stored paper vectors.
type VectorIndex interface {
	Search(query []float32, k int) ([]types.RetrievalCandidate, error)
}

// SemanticProvider embeds the query and searches the vector index. Both
// collaborators are interfaces so tests can run without a live embedding
// endpoint.
type SemanticProvider struct {
	Embedder Embedder
	Index    VectorIndex
}

func (p *SemanticProvider) Name() string { return string(types.ProviderSemantic) }

func (p *SemanticProvider) Search(ctx context.Context, query string, k int) ([]types.RetrievalCandidate, error) {
	vec, err := p.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	candidates, err := p.Index.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return candidates, nil
}
