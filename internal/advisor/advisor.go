// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package advisor wires the full query pipeline: normalize the query,
// fan out to retrieval providers, aggregate candidates per professor,
// score, and assemble display results. The HTTP API and the CLI both sit
// directly on this engine.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/advisor-match/internal/ranking"
	"github.com/pdiddy/advisor-match/internal/retrieval"
	"github.com/pdiddy/advisor-match/internal/spellcheck"
	"github.com/pdiddy/advisor-match/internal/store"
	"github.com/pdiddy/advisor-match/pkg/types"
)

var (
	// ErrInvalidQuery rejects empty or whitespace-only queries.
	ErrInvalidQuery = errors.New("query must not be empty")

	// ErrInvalidTopK rejects top_k values outside the configured bounds.
	ErrInvalidTopK = errors.New("top_k out of bounds")

	// ErrProviderUnavailable marks a retrieval provider failure. The whole
	// query fails rather than presenting a degraded result as complete.
	ErrProviderUnavailable = errors.New("retrieval provider unavailable")

	// ErrNotFound marks a missing professor or publication lookup.
	ErrNotFound = errors.New("not found")
)

// Params collects the engine's collaborators.
type Params struct {
	Store     *store.Store
	Corrector *spellcheck.Corrector
	Semantic  retrieval.Provider
	Lexical   retrieval.Provider
	Retrieval types.RetrievalConfig
	Ranking   types.RankingConfig
	Logger    zerolog.Logger

	// Now supplies the reference time for recency and activity. Tests pin
	// it; production leaves it nil for time.Now.
	Now func() time.Time
}

// Engine executes advisor-ranking queries. All per-query state is local to
// the call; the engine is safe for concurrent use.
type Engine struct {
	store     *store.Store
	corrector *spellcheck.Corrector
	semantic  retrieval.Provider
	lexical   retrieval.Provider
	scorer    *ranking.Scorer
	retrieval types.RetrievalConfig
	ranking   types.RankingConfig
	logger    zerolog.Logger
	now       func() time.Time
}

func New(p Params) *Engine {
	if p.Retrieval.K <= 0 {
		p.Retrieval.K = 50
	}
	if p.Retrieval.RRFK <= 0 {
		p.Retrieval.RRFK = 60
	}
	if p.Ranking.TopKDefault <= 0 {
		p.Ranking = types.DefaultRankingConfig()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Engine{
		store:     p.Store,
		corrector: p.Corrector,
		semantic:  p.Semantic,
		lexical:   p.Lexical,
		scorer:    ranking.NewScorer(p.Ranking),
		retrieval: p.Retrieval,
		ranking:   p.Ranking,
		logger:    p.Logger,
		now:       p.Now,
	}
}

// SearchRequest is one ranking query. TopK nil selects the configured
// default; a present value outside [TopKMin, TopKMax] is rejected.
type SearchRequest struct {
	Query           string
	Mode            retrieval.Mode
	TopK            *int
	IncludeEvidence bool
}

// SearchResult carries the ranked professors plus the normalized query so
// callers can show what was actually searched.
type SearchResult struct {
	Query          string                    `json:"query"`
	CorrectedQuery string                    `json:"corrected_query"`
	Mode           retrieval.Mode            `json:"mode"`
	Results        []ranking.RankedProfessor `json:"results"`
	ElapsedMS      int64                     `json:"elapsed_ms"`
}

// Search runs the full pipeline for one query.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := e.now()

	query, topK, mode, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	corrected := e.corrector.CorrectText(query)
	providers, err := e.providersFor(mode)
	if err != nil {
		return nil, err
	}

	lists, err := retrieval.FanOut(ctx, providers, corrected, e.retrieval.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}

	var candidates []types.RetrievalCandidate
	if len(lists) == 1 {
		candidates = lists[0]
	} else {
		candidates = retrieval.FuseRRF(lists, e.retrieval.RRFK, e.retrieval.K)
	}

	evidence, rawScores, err := ranking.Aggregate(ctx, e.store, candidates)
	if err != nil {
		return nil, err
	}
	scored := e.scorer.Rank(evidence, start.Year(), topK)

	results, err := ranking.Assemble(ctx, e.store, scored, rawScores, e.ranking.EvidenceDisplayCount, req.IncludeEvidence)
	if err != nil {
		return nil, err
	}

	elapsed := e.now().Sub(start)
	e.logger.Info().
		Str("query", query).
		Str("corrected_query", corrected).
		Str("mode", string(mode)).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Dur("elapsed", elapsed).
		Msg("search completed")

	return &SearchResult{
		Query:          query,
		CorrectedQuery: corrected,
		Mode:           mode,
		Results:        results,
		ElapsedMS:      elapsed.Milliseconds(),
	}, nil
}

func (e *Engine) validate(req SearchRequest) (query string, topK int, mode retrieval.Mode, err error) {
	query = strings.TrimSpace(req.Query)
	if query == "" {
		return "", 0, "", ErrInvalidQuery
	}

	topK = e.ranking.TopKDefault
	if req.TopK != nil {
		topK = *req.TopK
		if topK < e.ranking.TopKMin || topK > e.ranking.TopKMax {
			return "", 0, "", fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidTopK, topK, e.ranking.TopKMin, e.ranking.TopKMax)
		}
	}

	mode, parseErr := retrieval.ParseMode(string(req.Mode))
	if parseErr != nil {
		return "", 0, "", parseErr
	}
	return query, topK, mode, nil
}

func (e *Engine) providersFor(mode retrieval.Mode) ([]retrieval.Provider, error) {
	switch mode {
	case retrieval.ModeSemantic:
		if e.semantic == nil {
			return nil, fmt.Errorf("%w: semantic provider not configured", ErrProviderUnavailable)
		}
		return []retrieval.Provider{e.semantic}, nil
	case retrieval.ModeLexical:
		if e.lexical == nil {
			return nil, fmt.Errorf("%w: lexical provider not configured", ErrProviderUnavailable)
		}
		return []retrieval.Provider{e.lexical}, nil
	case retrieval.ModeHybrid:
		if e.semantic == nil || e.lexical == nil {
			return nil, fmt.Errorf("%w: hybrid mode needs both providers", ErrProviderUnavailable)
		}
		return []retrieval.Provider{e.semantic, e.lexical}, nil
	default:
		return nil, fmt.Errorf("unknown retrieval mode %q", mode)
	}
}

// Health is the loaded corpus state reported by the health endpoint. It
// reflects startup wiring, not per-request probes of the embedding service.
type Health struct {
	Status          string `json:"status"`
	Professors      int    `json:"professors"`
	Publications    int    `json:"publications"`
	SemanticEnabled bool   `json:"semantic_enabled"`
	LexicalEnabled  bool   `json:"lexical_enabled"`
}

func (e *Engine) Health(ctx context.Context) (*Health, error) {
	professors, err := e.store.CountProfessors(ctx)
	if err != nil {
		return nil, err
	}
	publications, err := e.store.CountPublications(ctx)
	if err != nil {
		return nil, err
	}
	return &Health{
		Status:          "ok",
		Professors:      professors,
		Publications:    publications,
		SemanticEnabled: e.semantic != nil,
		LexicalEnabled:  e.lexical != nil,
	}, nil
}

// Professor returns one professor with publication counts, ErrNotFound when
// absent.
func (e *Engine) Professor(ctx context.Context, id int64) (*types.ProfessorDetail, error) {
	recentSince := e.now().Year() - e.ranking.ActivityThresholdYears
	detail, err := e.store.ProfessorDetail(ctx, id, recentSince)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("professor %d: %w", id, ErrNotFound)
	}
	return detail, nil
}

// Publication returns one publication with its author list, ErrNotFound
// when absent.
func (e *Engine) Publication(ctx context.Context, id string) (*types.PublicationDetail, error) {
	detail, err := e.store.PublicationDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("publication %s: %w", id, ErrNotFound)
	}
	return detail, nil
}

