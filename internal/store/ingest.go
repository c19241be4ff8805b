// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// AuthorshipLink is one professor-to-publication bridge row for ingestion.
type AuthorshipLink struct {
	ProfessorID int64
	PaperID     string

	// Position is the 1-based author list rank, zero when unknown.
	Position int

	// IsPrimary marks the first/primary author.
	IsPrimary bool
}

// IngestSummary holds counts from a corpus ingestion run.
type IngestSummary struct {
	Professors   int
	Publications int
	Authorships  int
}

// ProfessorRecord is one professor with their publications as they appear in
// the ingest input file.
type ProfessorRecord struct {
	Professor    types.Professor     `yaml:",inline"`
	Publications []PublicationRecord `yaml:"publications"`
}

// PublicationRecord is one publication plus the professor's authorship
// metadata for it.
type PublicationRecord struct {
	Publication types.Publication `yaml:",inline"`

	// AuthorPosition is the ingested professor's 1-based rank in the
	// author list, zero when unknown.
	AuthorPosition int `yaml:"author_position"`

	// IsPrimary marks the ingested professor as first/primary author.
	IsPrimary bool `yaml:"is_primary"`
}

// Ingest loads a curated corpus into the database inside one transaction per
// professor. Re-running is safe: professors are keyed by external author id,
// publications by paper id, and bridge rows by the (professor, paper) pair.
func (s *Store) Ingest(ctx context.Context, records []ProfessorRecord, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		profID, err := s.UpsertProfessor(ctx, rec.Professor)
		if err != nil {
			return summary, fmt.Errorf("ingesting professor %q: %w", rec.Professor.Name, err)
		}
		summary.Professors++

		for _, pr := range rec.Publications {
			if err := s.UpsertPublication(ctx, pr.Publication); err != nil {
				return summary, fmt.Errorf("ingesting publication %s: %w", pr.Publication.ID, err)
			}
			summary.Publications++

			link := AuthorshipLink{
				ProfessorID: profID,
				PaperID:     pr.Publication.ID,
				Position:    pr.AuthorPosition,
				IsPrimary:   pr.IsPrimary,
			}
			if err := s.UpsertAuthorship(ctx, link); err != nil {
				return summary, fmt.Errorf("linking %q to %s: %w", rec.Professor.Name, pr.Publication.ID, err)
			}
			summary.Authorships++
		}

		fmt.Fprintf(w, "ingested %s (%d publications)\n", rec.Professor.Name, len(rec.Publications))
	}

	fmt.Fprintf(w, "\nprofessors: %d, publications: %d, authorships: %d\n",
		summary.Professors, summary.Publications, summary.Authorships)

	return summary, nil
}

// UpsertProfessor inserts or updates a professor keyed by external author id
// (falling back to name when no external id is present) and returns the row id.
func (s *Store) UpsertProfessor(ctx context.Context, p types.Professor) (int64, error) {
	if p.OpenAlexAuthorID != "" {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO professors (name, college, dept, interests, openalex_author_id, image_url)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(openalex_author_id) DO UPDATE SET
				name=excluded.name, college=excluded.college, dept=excluded.dept,
				interests=excluded.interests, image_url=excluded.image_url`,
			p.Name, p.College, p.Department, p.Interests, p.OpenAlexAuthorID, p.ImageURL)
		if err != nil {
			return 0, fmt.Errorf("upserting professor: %w", err)
		}

		var id int64
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM professors WHERE openalex_author_id = ?`, p.OpenAlexAuthorID,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("resolving professor id: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO professors (name, college, dept, interests, openalex_author_id, image_url)
		VALUES (?, ?, ?, ?, NULL, ?)`,
		p.Name, p.College, p.Department, p.Interests, p.ImageURL)
	if err != nil {
		return 0, fmt.Errorf("inserting professor: %w", err)
	}
	return res.LastInsertId()
}

// UpsertPublication inserts or updates a publication keyed by paper id. The
// embedding column is left untouched so re-ingesting metadata does not force
// re-embedding.
func (s *Store) UpsertPublication(ctx context.Context, pub types.Publication) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO publications (paper_id, title, abstract, venue, year, citation_count, url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(paper_id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, venue=excluded.venue,
			year=excluded.year, citation_count=excluded.citation_count, url=excluded.url`,
		pub.ID, pub.Title, pub.Abstract, pub.Venue, nullableYear(pub.Year), pub.Citations, pub.URL)
	if err != nil {
		return fmt.Errorf("upserting publication: %w", err)
	}
	return nil
}

// UpsertAuthorship inserts or updates a bridge row; at most one row exists
// per (professor, paper) pair.
func (s *Store) UpsertAuthorship(ctx context.Context, link AuthorshipLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO author_bridge (professor_id, paper_id, author_position, is_primary_author)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(professor_id, paper_id) DO UPDATE SET
			author_position=excluded.author_position,
			is_primary_author=excluded.is_primary_author`,
		link.ProfessorID, link.PaperID, nullablePosition(link.Position), link.IsPrimary)
	if err != nil {
		return fmt.Errorf("upserting authorship: %w", err)
	}
	return nil
}

func nullableYear(year int) any {
	if year <= 0 {
		return nil
	}
	return year
}

func nullablePosition(pos int) any {
	if pos <= 0 {
		return nil
	}
	return pos
}
