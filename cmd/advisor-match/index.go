// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advisor-match/internal/embed"
	"github.com/pdiddy/advisor-match/internal/index"
	"github.com/pdiddy/advisor-match/internal/store"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Vector index operations",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed publications and build the vector index",
	Long: `Build embeds every publication that has no stored vector yet (title plus
abstract, batched against the embedding service), persists the vectors in
the store, then rebuilds the flat inner-product index and its paper-id
mapping from all stored vectors.

Embedding is incremental: re-running after an ingest only embeds the new
publications. The index files are rewritten atomically on every run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		client := embed.NewClient(cfg.Embedding)
		embedded, err := embedMissing(cmd.Context(), st, client)
		if err != nil {
			return err
		}

		stored, err := st.Embeddings(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading stored vectors: %w", err)
		}
		if len(stored) == 0 {
			return fmt.Errorf("no embeddings stored; run 'advisor-match ingest' first")
		}

		flat, err := index.New(client.Dimension())
		if err != nil {
			return err
		}
		for _, e := range stored {
			if err := flat.Add(e.PaperID, e.Vector); err != nil {
				return fmt.Errorf("adding %s to index: %w", e.PaperID, err)
			}
		}
		if err := flat.Save(cfg.Index.IndexPath, cfg.Index.MappingPath); err != nil {
			return err
		}

		fmt.Printf("Embedded %d new publications; index holds %d vectors (%s)\n",
			embedded, flat.Len(), cfg.Index.IndexPath)
		return nil
	},
}

// embedMissing fetches vectors for publications without one, in batches,
// and persists each batch before requesting the next so an interrupted run
// resumes where it stopped.
func embedMissing(ctx context.Context, st *store.Store, client *embed.Client) (int, error) {
	missing, err := st.PublicationsMissingEmbedding(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing unembedded publications: %w", err)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	batchSize := client.BatchSize()
	embedded := 0
	for start := 0; start < len(missing); start += batchSize {
		end := start + batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		texts := make([]string, len(batch))
		for i, m := range batch {
			texts[i] = m.Text
		}
		vectors, err := client.Embed(ctx, texts)
		if err != nil {
			return embedded, fmt.Errorf("embedding batch at %d: %w", start, err)
		}
		for i, vec := range vectors {
			if err := st.SaveEmbedding(ctx, batch[i].PaperID, vec); err != nil {
				return embedded, err
			}
			embedded++
		}
		fmt.Fprintf(os.Stderr, "Embedded %d/%d publications\n", embedded, len(missing))
	}
	return embedded, nil
}

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}
