// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/advisor-match/internal/advisor"
	"github.com/pdiddy/advisor-match/internal/ranking"
	"github.com/pdiddy/advisor-match/internal/retrieval"
	"github.com/pdiddy/advisor-match/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank advisors against a research query",
	Long: `Search runs one ranking query against the local corpus and prints the top
advisors with their score breakdown. Modes: semantic (vector similarity,
default), lexical (BM25 over titles), hybrid (both, fused by reciprocal
rank).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		mode, _ := cmd.Flags().GetString("mode")
		topK, _ := cmd.Flags().GetInt("top-k")
		asJSON, _ := cmd.Flags().GetBool("json")
		out, _ := cmd.Flags().GetString("out")
		evidence, _ := cmd.Flags().GetBool("evidence")

		cfg := loadConfig()
		logger := newLogger(false)
		engine, closer, err := buildEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closer()

		req := advisor.SearchRequest{
			Query:           query,
			Mode:            retrieval.Mode(mode),
			IncludeEvidence: evidence,
		}
		if cmd.Flags().Changed("top-k") {
			req.TopK = &topK
		}

		result, err := engine.Search(cmd.Context(), req)
		if err != nil {
			return err
		}

		if out != "" {
			if err := writeQueryFile(out, cfg, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d results to %s\n", len(result.Results), out)
			return nil
		}
		if asJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printResults(result)
		return nil
	},
}

// queryFile is the saved-search YAML format written by --out: the query,
// the config it ran under, and the results, so a run is reproducible later.
type queryFile struct {
	Query          string                    `yaml:"query"`
	CorrectedQuery string                    `yaml:"corrected_query,omitempty"`
	Mode           string                    `yaml:"mode"`
	Timestamp      string                    `yaml:"timestamp"`
	Retrieval      types.RetrievalConfig     `yaml:"retrieval"`
	Ranking        types.RankingConfig       `yaml:"ranking"`
	Results        []ranking.RankedProfessor `yaml:"results"`
	Summary        querySummary              `yaml:"summary"`
}

type querySummary struct {
	Count     int   `yaml:"count"`
	ElapsedMS int64 `yaml:"elapsed_ms"`
}

func writeQueryFile(path string, cfg types.Config, result *advisor.SearchResult) error {
	qf := queryFile{
		Query:     result.Query,
		Mode:      string(result.Mode),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Retrieval: cfg.Retrieval,
		Ranking:   cfg.Ranking,
		Results:   result.Results,
		Summary:   querySummary{Count: len(result.Results), ElapsedMS: result.ElapsedMS},
	}
	if qf.Query != result.CorrectedQuery {
		qf.CorrectedQuery = result.CorrectedQuery
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("encoding query file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func printResults(result *advisor.SearchResult) {
	if result.CorrectedQuery != result.Query {
		fmt.Printf("Query corrected to %q\n", result.CorrectedQuery)
	}
	if len(result.Results) == 0 {
		fmt.Println("No matching advisors.")
		return
	}

	for i, r := range result.Results {
		fmt.Printf("%2d. %s", i+1, r.Professor.Name)
		if r.Professor.Department != "" {
			fmt.Printf(" (%s)", r.Professor.Department)
		}
		fmt.Printf("  score=%.3f\n", r.FinalScore)
		fmt.Printf("    similarity=%.3f recency=%.3f activity=%.2f citations=%.2f papers=%d\n",
			r.AvgSimilarity, r.AvgRecencyWeight, r.ActivityBonus, r.CitationImpact, r.MatchingPapers)
		for _, e := range r.Evidence {
			fmt.Printf("    - %s", e.Title)
			if e.Year > 0 {
				fmt.Printf(" (%d)", e.Year)
			}
			fmt.Printf(" [%.3f]\n", e.RawScore)
		}
	}
	fmt.Printf("%d results in %dms (%s mode)\n", len(result.Results), result.ElapsedMS, result.Mode)
}

func init() {
	searchCmd.Flags().String("query", "", "free-text research query (required)")
	searchCmd.Flags().String("mode", "", "retrieval mode: semantic, lexical, or hybrid")
	searchCmd.Flags().Int("top-k", 0, "number of advisors to return (default from config)")
	searchCmd.Flags().Bool("evidence", true, "attach evidence publications to each result")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("out", "", "write a YAML query file (query, config, results) instead of stdout")

	rootCmd.AddCommand(searchCmd)
}
