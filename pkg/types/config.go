// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "advisor-match/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the SQLite relational store.
type StoreConfig struct {
	// Path is the SQLite database file (e.g. "data/advisor-match.db").
	Path string `json:"path" yaml:"path"`
}

// EmbeddingConfig holds settings for the embedding provider client.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the embeddings service root (e.g. "http://localhost:8081/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the embedding model identifier (e.g. "all-MiniLM-L6-v2").
	Model string `json:"model" yaml:"model"`

	// APIKey is an optional bearer token, normally loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Dimension is the expected vector dimension (default 384). Responses
	// with a different dimension are rejected.
	Dimension int `json:"dimension" yaml:"dimension"`

	// BatchSize is the number of texts embedded per request during index
	// builds (default 32).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// IndexConfig holds settings for the vector index files.
type IndexConfig struct {
	// IndexPath is the gob-encoded flat index file.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// MappingPath is the JSON sidecar mapping index positions to paper IDs.
	MappingPath string `json:"mapping_path" yaml:"mapping_path"`
}

// RetrievalConfig holds settings for the per-query retrieval fan-out.
type RetrievalConfig struct {
	// K is the number of candidates requested from each provider (default 50).
	K int `json:"k" yaml:"k"`

	// RRFK is the reciprocal-rank-fusion constant used in hybrid mode
	// (default 60, per the original RRF paper).
	RRFK int `json:"rrf_k" yaml:"rrf_k"`
}

// RankingConfig holds the scoring engine tunables. Defaults preserve the
// constants the ranking formula was calibrated with; see
// docs/ARCHITECTURE.md § Ranking for the rationale behind each.
type RankingConfig struct {
	// DecayRate is the exponential decay rate per year for recency
	// weighting (default 0.05).
	DecayRate float64 `json:"decay_rate" yaml:"decay_rate"`

	// FirstAuthorBonus is the multiplicative boost for first-author papers
	// (default 0.2, i.e. a 20% lift).
	FirstAuthorBonus float64 `json:"first_author_bonus" yaml:"first_author_bonus"`

	// ActivityThresholdYears is how far back a paper may be to count as
	// recent activity (default 2).
	ActivityThresholdYears int `json:"activity_threshold_years" yaml:"activity_threshold_years"`

	// ActivityBonusPerPaper is the additive bonus per recent paper
	// (default 0.05).
	ActivityBonusPerPaper float64 `json:"activity_bonus_per_paper" yaml:"activity_bonus_per_paper"`

	// MaxActivityBonus caps the total activity bonus (default 0.2).
	MaxActivityBonus float64 `json:"max_activity_bonus" yaml:"max_activity_bonus"`

	// CitationWeight scales the citation impact component in the final
	// score (default 0.15).
	CitationWeight float64 `json:"citation_weight" yaml:"citation_weight"`

	// CitationLogBase is the logarithm base for citation normalization
	// (default 10).
	CitationLogBase float64 `json:"citation_log_base" yaml:"citation_log_base"`

	// CitationLogDivisor normalizes the log citation score to [0, 1]
	// (default 3, so ~1000 citations saturate). A heuristic constant, kept
	// configurable rather than hard-coded.
	CitationLogDivisor float64 `json:"citation_log_divisor" yaml:"citation_log_divisor"`

	// TopNPerProfessor is the evidence window size (default 10).
	TopNPerProfessor int `json:"top_n_per_professor" yaml:"top_n_per_professor"`

	// TopKDefault, TopKMin, and TopKMax bound the number of professors
	// returned per query (defaults 10, 1, 50).
	TopKDefault int `json:"top_k_default" yaml:"top_k_default"`
	TopKMin     int `json:"top_k_min" yaml:"top_k_min"`
	TopKMax     int `json:"top_k_max" yaml:"top_k_max"`

	// EvidenceDisplayCount bounds the evidence publications attached to
	// each result (default 3).
	EvidenceDisplayCount int `json:"evidence_display_count" yaml:"evidence_display_count"`
}

// DefaultRankingConfig returns the calibrated scoring defaults.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		DecayRate:              0.05,
		FirstAuthorBonus:       0.2,
		ActivityThresholdYears: 2,
		ActivityBonusPerPaper:  0.05,
		MaxActivityBonus:       0.2,
		CitationWeight:         0.15,
		CitationLogBase:        10,
		CitationLogDivisor:     3,
		TopNPerProfessor:       10,
		TopKDefault:            10,
		TopKMin:                1,
		TopKMax:                50,
		EvidenceDisplayCount:   3,
	}
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// CORSOrigins lists allowed browser origins. "*" allows all.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config groups all component configurations.
type Config struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Ranking   RankingConfig   `json:"ranking" yaml:"ranking"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
