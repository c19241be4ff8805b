// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Publication holds metadata for a paper in the corpus. Publications are
// immutable at query time; the ingest and index commands are the only writers.
type Publication struct {
	// ID is the stable external paper identifier (an OpenAlex work URL).
	ID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year. Zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Citations is the citation count. Unknown counts are stored as zero,
	// which the scoring engine already treats as neutral.
	Citations int `json:"citation_count" yaml:"citation_count"`

	// Venue is the journal or conference name, possibly empty.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// URL is the DOI or landing page, possibly empty.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// PublicationAuthor is one entry in a publication's ordered author list.
type PublicationAuthor struct {
	ProfessorID int64  `json:"professor_id" yaml:"professor_id"`
	Name        string `json:"name" yaml:"name"`

	// Position is the 1-based rank in the author list. Zero or negative
	// means the position is unknown.
	Position int `json:"position" yaml:"position"`

	// IsPrimary marks the primary (first) author.
	IsPrimary bool `json:"is_primary" yaml:"is_primary"`
}

// PublicationDetail is a Publication with its ordered author list.
type PublicationDetail struct {
	Publication `yaml:",inline"`

	Authors []PublicationAuthor `json:"authors" yaml:"authors"`
}
