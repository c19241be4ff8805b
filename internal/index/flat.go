// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index provides an exact flat inner-product vector index over
// publication embeddings. Vectors are L2-normalized at embedding time, so
// inner product equals cosine similarity. Brute-force scan is the intended
// algorithm at corpus scale (tens of thousands of papers, one scan per
// query); the index is built offline, loaded read-only, and never mutated
// while serving.
// See docs/ARCHITECTURE.md § Retrieval Providers.
package index

import (
	"fmt"
	"sort"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Flat is an exact inner-product index mapping dense positions to paper ids.
type Flat struct {
	dim     int
	ids     []string
	vectors [][]float32
}

// New returns an empty index for vectors of the given dimension.
func New(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Add appends a vector under the given paper id.
func (f *Flat) Add(paperID string, vector []float32) error {
	if len(vector) != f.dim {
		return fmt.Errorf("vector for %s has dimension %d, index expects %d", paperID, len(vector), f.dim)
	}
	f.ids = append(f.ids, paperID)
	f.vectors = append(f.vectors, vector)
	return nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.ids) }

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the k nearest stored vectors to query by inner product,
// highest similarity first. Ties keep insertion order so results are
// deterministic.
func (f *Flat) Search(query []float32, k int) ([]types.RetrievalCandidate, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), f.dim)
	}
	if k <= 0 || len(f.ids) == 0 {
		return nil, nil
	}
	if k > len(f.ids) {
		k = len(f.ids)
	}

	scores := make([]float64, len(f.vectors))
	for i, vec := range f.vectors {
		scores[i] = dot(query, vec)
	}

	order := make([]int, len(f.ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	candidates := make([]types.RetrievalCandidate, 0, k)
	for _, idx := range order[:k] {
		candidates = append(candidates, types.RetrievalCandidate{
			PaperID:  f.ids[idx],
			Score:    scores[idx],
			Provider: types.ProviderSemantic,
		})
	}
	return candidates, nil
}

// Mapping returns the dense position to paper id mapping.
func (f *Flat) Mapping() map[int]string {
	m := make(map[int]string, len(f.ids))
	for i, id := range f.ids {
		m[i] = id
	}
	return m
}

func dot(a []float32, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
