// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval defines the provider contract for candidate retrieval
// and runs the per-query fan-out: providers are independent, queried
// concurrently, and joined before aggregation begins.
// See docs/ARCHITECTURE.md § Retrieval Providers.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Provider retrieves scored paper candidates for a query. Implementations
// must be safe for concurrent use; all per-query state stays on the stack.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, k int) ([]types.RetrievalCandidate, error)
}

// Mode selects which providers serve a query.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeLexical  Mode = "lexical"
	ModeHybrid   Mode = "hybrid"
)

// ErrUnknownMode rejects mode strings outside the known set.
var ErrUnknownMode = errors.New("unknown retrieval mode")

// ParseMode validates a request-supplied mode string. Empty selects the
// default (semantic).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeSemantic, nil
	case ModeSemantic, ModeLexical, ModeHybrid:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w %q (want semantic, lexical, or hybrid)", ErrUnknownMode, s)
	}
}

// FanOut queries all providers concurrently and returns one candidate list
// per provider, in provider order. Any provider failure cancels the rest and
// fails the whole fan-out: a degraded result must never be presented as a
// complete one.
func FanOut(ctx context.Context, providers []Provider, query string, k int) ([][]types.RetrievalCandidate, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no retrieval providers configured")
	}

	lists := make([][]types.RetrievalCandidate, len(providers))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			candidates, err := p.Search(ctx, query, k)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Name(), err)
			}
			lists[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// FuseRRF merges ranked candidate lists with reciprocal rank fusion:
// score = sum over lists of 1/(rrfK + rank). Raw provider scores are not
// comparable across providers; ranks are. The fused list is capped at limit
// and ordered by fused score descending, ties broken by paper id so fusion
// is deterministic.
func FuseRRF(lists [][]types.RetrievalCandidate, rrfK, limit int) []types.RetrievalCandidate {
	if rrfK <= 0 {
		rrfK = 60
	}

	type fused struct {
		candidate types.RetrievalCandidate
		score     float64
	}
	byID := make(map[string]*fused)

	for _, list := range lists {
		for rank, c := range list {
			f, ok := byID[c.PaperID]
			if !ok {
				f = &fused{candidate: c}
				byID[c.PaperID] = f
			}
			f.score += 1.0 / float64(rrfK+rank+1)
		}
	}

	out := make([]types.RetrievalCandidate, 0, len(byID))
	for _, f := range byID {
		c := f.candidate
		c.Score = f.score
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PaperID < out[j].PaperID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
