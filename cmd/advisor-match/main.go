// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the advisor-match CLI.
// Subcommands cover the offline pipeline (ingest, index) and the query
// surface (search, serve). See docs/ARCHITECTURE.md § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/advisor-match/internal/secrets"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the advisor-match CLI.
var rootCmd = &cobra.Command{
	Use:   "advisor-match",
	Short: "Rank academic advisors against free-text research queries",
	Long: `advisor-match ranks academic advisors against a research query by combining
semantic and lexical retrieval with bibliometric evidence: publication
recency, authorship position, recent activity, and citation counts.

The offline pipeline is two subcommands: ingest loads a professor corpus
into SQLite, index embeds publications and builds the vector index. Queries
run through search (one-shot CLI) or serve (HTTP API).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./advisor-match.yaml or ~/.config/advisor-match/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("advisor-match")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "advisor-match"))
		}
	}

	viper.SetEnvPrefix("ADVISOR_MATCH")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("store.path", "data/advisor-match.db")

	viper.SetDefault("embedding.base_url", "http://localhost:8081/v1")
	viper.SetDefault("embedding.model", "all-MiniLM-L6-v2")
	viper.SetDefault("embedding.dimension", 384)
	viper.SetDefault("embedding.batch_size", 32)
	viper.SetDefault("embedding.timeout", 30*time.Second)
	viper.SetDefault("embedding.user_agent", "advisor-match/"+version)

	viper.SetDefault("index.index_path", "data/publications.index")
	viper.SetDefault("index.mapping_path", "data/publications.mapping.json")

	viper.SetDefault("retrieval.k", 50)
	viper.SetDefault("retrieval.rrf_k", 60)

	rank := types.DefaultRankingConfig()
	viper.SetDefault("ranking.decay_rate", rank.DecayRate)
	viper.SetDefault("ranking.first_author_bonus", rank.FirstAuthorBonus)
	viper.SetDefault("ranking.activity_threshold_years", rank.ActivityThresholdYears)
	viper.SetDefault("ranking.activity_bonus_per_paper", rank.ActivityBonusPerPaper)
	viper.SetDefault("ranking.max_activity_bonus", rank.MaxActivityBonus)
	viper.SetDefault("ranking.citation_weight", rank.CitationWeight)
	viper.SetDefault("ranking.citation_log_base", rank.CitationLogBase)
	viper.SetDefault("ranking.citation_log_divisor", rank.CitationLogDivisor)
	viper.SetDefault("ranking.top_n_per_professor", rank.TopNPerProfessor)
	viper.SetDefault("ranking.top_k_default", rank.TopKDefault)
	viper.SetDefault("ranking.top_k_min", rank.TopKMin)
	viper.SetDefault("ranking.top_k_max", rank.TopKMax)
	viper.SetDefault("ranking.evidence_display_count", rank.EvidenceDisplayCount)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
}

func loadConfig() types.Config {
	return types.Config{
		Store: types.StoreConfig{Path: viper.GetString("store.path")},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("embedding.timeout"),
				UserAgent: viper.GetString("embedding.user_agent"),
			},
			BaseURL:   viper.GetString("embedding.base_url"),
			Model:     viper.GetString("embedding.model"),
			APIKey:    secretDefault("embedding-api-key", viper.GetString("embedding.api_key")),
			Dimension: viper.GetInt("embedding.dimension"),
			BatchSize: viper.GetInt("embedding.batch_size"),
		},
		Index: types.IndexConfig{
			IndexPath:   viper.GetString("index.index_path"),
			MappingPath: viper.GetString("index.mapping_path"),
		},
		Retrieval: types.RetrievalConfig{
			K:    viper.GetInt("retrieval.k"),
			RRFK: viper.GetInt("retrieval.rrf_k"),
		},
		Ranking: types.RankingConfig{
			DecayRate:              viper.GetFloat64("ranking.decay_rate"),
			FirstAuthorBonus:       viper.GetFloat64("ranking.first_author_bonus"),
			ActivityThresholdYears: viper.GetInt("ranking.activity_threshold_years"),
			ActivityBonusPerPaper:  viper.GetFloat64("ranking.activity_bonus_per_paper"),
			MaxActivityBonus:       viper.GetFloat64("ranking.max_activity_bonus"),
			CitationWeight:         viper.GetFloat64("ranking.citation_weight"),
			CitationLogBase:        viper.GetFloat64("ranking.citation_log_base"),
			CitationLogDivisor:     viper.GetFloat64("ranking.citation_log_divisor"),
			TopNPerProfessor:       viper.GetInt("ranking.top_n_per_professor"),
			TopKDefault:            viper.GetInt("ranking.top_k_default"),
			TopKMin:                viper.GetInt("ranking.top_k_min"),
			TopKMax:                viper.GetInt("ranking.top_k_max"),
			EvidenceDisplayCount:   viper.GetInt("ranking.evidence_display_count"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			CORSOrigins:     viper.GetStringSlice("server.cors_origins"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
	}
}

// newLogger builds the CLI logger. Console output on stderr; JSON when
// --log-json is set on serve.
func newLogger(jsonOutput bool) zerolog.Logger {
	if jsonOutput {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
