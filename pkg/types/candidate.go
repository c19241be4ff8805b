// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProviderKind identifies which retrieval provider produced a candidate.
type ProviderKind string

const (
	ProviderSemantic ProviderKind = "semantic"
	ProviderLexical  ProviderKind = "lexical"
)

// RetrievalCandidate is one (paper, score) pair returned by a retrieval
// provider. Scores are provider-scaled: inner-product similarity for the
// semantic provider, BM25 for the lexical one. Candidates are transient,
// produced once per query.
type RetrievalCandidate struct {
	PaperID  string       `json:"paper_id"`
	Score    float64      `json:"score"`
	Provider ProviderKind `json:"provider"`
}

// CandidateAuthorship is one author_bridge row joined with publication year
// and citation count, produced by the candidate join in the aggregator.
type CandidateAuthorship struct {
	ProfessorID int64
	PaperID     string

	// Year is the publication year, zero when unknown.
	Year int

	// AuthorPosition is the professor's 1-based rank in the author list,
	// zero or negative when unknown.
	AuthorPosition int

	// Citations is the publication citation count, zero when unknown.
	Citations int
}

// PaperEvidence is one scored paper in a professor's candidate set: the
// retrieval score joined with the authorship and bibliometric fields the
// scoring engine consumes.
type PaperEvidence struct {
	PaperID        string
	Score          float64
	Year           int
	AuthorPosition int
	Citations      int
}

// ScoredProfessor is the scoring engine's output for one professor: the
// final score plus its components for explainability. Immutable once
// produced.
type ScoredProfessor struct {
	ProfessorID int64 `json:"professor_id"`

	// FinalScore is in [0, 1].
	FinalScore float64 `json:"final_score"`

	// AvgSimilarity is the mean raw retrieval score over the evidence
	// window, reported independently of recency weighting.
	AvgSimilarity float64 `json:"avg_similarity"`

	// AvgRecencyWeight is the mean exponential-decay recency weight over
	// the evidence window.
	AvgRecencyWeight float64 `json:"avg_recency_weight"`

	// ActivityBonus rewards recent output, capped at MaxActivityBonus.
	ActivityBonus float64 `json:"activity_bonus"`

	// CitationImpact is the clamped, log-normalized citation component in [0, 1].
	CitationImpact float64 `json:"citation_impact"`

	// MatchingPapers counts the professor's full candidate set, which may
	// exceed the evidence shown.
	MatchingPapers int `json:"num_matching_papers"`

	// EvidencePaperIDs lists the papers inside the evidence window, ranked
	// by raw score descending.
	EvidencePaperIDs []string `json:"evidence_paper_ids"`
}
