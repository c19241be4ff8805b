// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the advisor-match engine.
// See docs/ARCHITECTURE.md § Data Model.
package types

// Professor is a person record created by ingestion. The query path treats
// professors as read-only; only the ingest command writes them.
type Professor struct {
	// ID is the database row id.
	ID int64 `json:"id" yaml:"id"`

	// Name is the professor's display name.
	Name string `json:"name" yaml:"name"`

	// College and Department locate the professor in the institution.
	College    string `json:"college" yaml:"college"`
	Department string `json:"department" yaml:"department"`

	// Interests is free text describing research interests. It feeds the
	// spell-check vocabulary alongside publication titles.
	Interests string `json:"interests,omitempty" yaml:"interests,omitempty"`

	// OpenAlexAuthorID is the external author identifier, unique per professor.
	OpenAlexAuthorID string `json:"openalex_author_id,omitempty" yaml:"openalex_author_id,omitempty"`

	// ImageURL is an optional portrait or avatar reference.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// ProfessorDetail is a Professor with aggregate publication counts for the
// detail endpoint.
type ProfessorDetail struct {
	Professor `yaml:",inline"`

	// TotalPublications counts every author_bridge row for the professor.
	TotalPublications int `json:"total_publications" yaml:"total_publications"`

	// RecentPublications counts publications within the activity threshold
	// window (default: the last 2 years).
	RecentPublications int `json:"recent_publications" yaml:"recent_publications"`
}
