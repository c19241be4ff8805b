// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexical provides term-overlap retrieval over publication titles
// using BM25 (Okapi). The index is built once at startup from the store and
// is read-only afterwards, so concurrent queries need no synchronization.
// See docs/ARCHITECTURE.md § Retrieval Providers.
package lexical

import (
	"context"
	"math"
	"sort"

	"github.com/pdiddy/advisor-match/internal/spellcheck"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// BM25 parameters. k1 controls term-frequency saturation, b controls document
// length normalization, epsilon floors negative IDF values for very common
// terms.
const (
	k1      = 1.5
	b       = 0.75
	epsilon = 0.25
)

// Document is one indexable publication title.
type Document struct {
	ID   string
	Text string
}

// Searcher is a BM25 index over publication titles.
type Searcher struct {
	ids       []string
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewSearcher tokenizes the documents and precomputes term statistics. The
// tokenizer is shared with the spell-check vocabulary so both see identical
// terms.
func NewSearcher(docs []Document) *Searcher {
	s := &Searcher{idf: make(map[string]float64)}

	df := make(map[string]int)
	totalLen := 0
	for _, doc := range docs {
		tokens := spellcheck.Tokenize(doc.Text)
		if len(tokens) == 0 {
			continue
		}

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for term := range tf {
			df[term]++
		}

		s.ids = append(s.ids, doc.ID)
		s.termFreqs = append(s.termFreqs, tf)
		s.docLens = append(s.docLens, len(tokens))
		totalLen += len(tokens)
	}

	n := len(s.ids)
	if n == 0 {
		return s
	}
	s.avgDocLen = float64(totalLen) / float64(n)

	// Okapi IDF with an epsilon floor: terms in more than half the corpus
	// would go negative, which BM25Okapi replaces with a fraction of the
	// average IDF.
	var idfSum float64
	var negative []string
	for term, freq := range df {
		idf := math.Log((float64(n)-float64(freq)+0.5)/(float64(freq)+0.5) + 1)
		if idf <= 0 {
			negative = append(negative, term)
		}
		s.idf[term] = idf
		idfSum += idf
	}
	avgIDF := idfSum / float64(len(df))
	for _, term := range negative {
		s.idf[term] = epsilon * avgIDF
	}

	return s
}

// Len returns the number of indexed documents.
func (s *Searcher) Len() int { return len(s.ids) }

// Name identifies the provider in fan-out logs.
func (s *Searcher) Name() string { return string(types.ProviderLexical) }

// Search scores every document against the query terms and returns the top k
// candidates by BM25 score, descending. Documents with zero or negative
// scores are discarded: zero means "no term overlap" and must never reach the
// aggregator.
func (s *Searcher) Search(_ context.Context, query string, k int) ([]types.RetrievalCandidate, error) {
	if k <= 0 || len(s.ids) == 0 {
		return nil, nil
	}

	terms := spellcheck.Tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	scores := make([]float64, len(s.ids))
	for i := range s.ids {
		scores[i] = s.score(terms, i)
	}

	order := make([]int, len(s.ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		return scores[order[a]] > scores[order[c]]
	})

	var candidates []types.RetrievalCandidate
	for _, idx := range order {
		if len(candidates) == k {
			break
		}
		if scores[idx] <= 0 {
			break
		}
		candidates = append(candidates, types.RetrievalCandidate{
			PaperID:  s.ids[idx],
			Score:    scores[idx],
			Provider: types.ProviderLexical,
		})
	}
	return candidates, nil
}

// score computes the BM25 score of document idx for the query terms:
// sum over terms of IDF * (tf*(k1+1)) / (tf + k1*(1 - b + b*len/avgLen)).
func (s *Searcher) score(terms []string, idx int) float64 {
	var total float64
	lenNorm := k1 * (1 - b + b*float64(s.docLens[idx])/s.avgDocLen)
	for _, term := range terms {
		tf := float64(s.termFreqs[idx][term])
		if tf == 0 {
			continue
		}
		total += s.idf[term] * (tf * (k1 + 1)) / (tf + lenNorm)
	}
	return total
}
