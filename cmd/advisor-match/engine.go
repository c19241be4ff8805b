// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/pdiddy/advisor-match/internal/advisor"
	"github.com/pdiddy/advisor-match/internal/embed"
	"github.com/pdiddy/advisor-match/internal/index"
	"github.com/pdiddy/advisor-match/internal/lexical"
	"github.com/pdiddy/advisor-match/internal/retrieval"
	"github.com/pdiddy/advisor-match/internal/spellcheck"
	"github.com/pdiddy/advisor-match/internal/store"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// buildEngine assembles the full query pipeline: store, vocabulary,
// retrieval providers, and the scoring engine. The returned closer shuts
// the store.
//
// The semantic provider is only wired when the vector index file exists;
// without it the engine still serves lexical queries and reports the
// semantic provider unavailable.
func buildEngine(ctx context.Context, cfg types.Config, logger zerolog.Logger) (*advisor.Engine, func(), error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	closer := func() { st.Close() }

	texts, err := st.VocabularyTexts(ctx)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("building vocabulary: %w", err)
	}
	vocab := spellcheck.BuildVocabulary(texts)
	logger.Info().Int("words", vocab.Size()).Msg("vocabulary built")

	titles, err := st.Titles(ctx)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("loading titles: %w", err)
	}
	docs := make([]lexical.Document, len(titles))
	for i, t := range titles {
		docs[i] = lexical.Document{ID: t.PaperID, Text: t.Title}
	}
	lexicalProvider := lexical.NewSearcher(docs)
	logger.Info().Int("documents", len(docs)).Msg("lexical searcher built")

	var semanticProvider retrieval.Provider
	flat, err := index.Load(cfg.Index.IndexPath)
	switch {
	case err == nil:
		semanticProvider = &retrieval.SemanticProvider{
			Embedder: embed.NewClient(cfg.Embedding),
			Index:    flat,
		}
		logger.Info().Int("vectors", flat.Len()).Int("dimension", flat.Dimension()).Msg("vector index loaded")
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn().Str("path", cfg.Index.IndexPath).
			Msg("vector index not found, semantic retrieval disabled (run 'advisor-match index build')")
	default:
		closer()
		return nil, nil, fmt.Errorf("loading vector index: %w", err)
	}

	engine := advisor.New(advisor.Params{
		Store:     st,
		Corrector: spellcheck.NewCorrector(vocab),
		Semantic:  semanticProvider,
		Lexical:   lexicalProvider,
		Retrieval: cfg.Retrieval,
		Ranking:   cfg.Ranking,
		Logger:    logger,
	})
	return engine, closer, nil
}
