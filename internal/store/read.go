// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// CandidateAuthorships returns every author_bridge row whose paper appears in
// paperIDs, joined with the publication's year and citation count. Papers
// without bridge rows simply contribute nothing; that is an expected
// data-quality gap, not an error.
func (s *Store) CandidateAuthorships(ctx context.Context, paperIDs []string) ([]types.CandidateAuthorship, error) {
	if len(paperIDs) == 0 {
		return nil, nil
	}

	args := make([]any, len(paperIDs))
	for i, id := range paperIDs {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT ab.professor_id, ab.paper_id, pub.year, ab.author_position, pub.citation_count
		FROM author_bridge ab
		JOIN publications pub ON ab.paper_id = pub.paper_id
		WHERE ab.paper_id IN (%s)
		ORDER BY ab.paper_id, ab.professor_id`, placeholders(len(paperIDs)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidate authorships: %w", err)
	}
	defer rows.Close()

	var result []types.CandidateAuthorship
	for rows.Next() {
		var (
			ca        types.CandidateAuthorship
			year      sql.NullInt64
			position  sql.NullInt64
			citations sql.NullInt64
		)
		if err := rows.Scan(&ca.ProfessorID, &ca.PaperID, &year, &position, &citations); err != nil {
			return nil, fmt.Errorf("scanning authorship row: %w", err)
		}
		if year.Valid {
			ca.Year = int(year.Int64)
		}
		if position.Valid {
			ca.AuthorPosition = int(position.Int64)
		}
		if citations.Valid && citations.Int64 > 0 {
			ca.Citations = int(citations.Int64)
		}
		result = append(result, ca)
	}
	return result, rows.Err()
}

// Professor returns the professor with the given id, or nil if absent.
func (s *Store) Professor(ctx context.Context, id int64) (*types.Professor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, college, dept, interests, openalex_author_id, image_url
		FROM professors WHERE id = ?`, id)

	p, err := scanProfessor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying professor %d: %w", id, err)
	}
	return p, nil
}

// ProfessorDetail returns the professor with publication counts: total
// author_bridge rows and those published in or after recentSinceYear.
// Returns nil if the professor does not exist.
func (s *Store) ProfessorDetail(ctx context.Context, id int64, recentSinceYear int) (*types.ProfessorDetail, error) {
	p, err := s.Professor(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}

	detail := &types.ProfessorDetail{Professor: *p}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM author_bridge WHERE professor_id = ?`, id,
	).Scan(&detail.TotalPublications)
	if err != nil {
		return nil, fmt.Errorf("counting publications for professor %d: %w", id, err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM author_bridge ab
		JOIN publications p ON ab.paper_id = p.paper_id
		WHERE ab.professor_id = ? AND p.year >= ?`, id, recentSinceYear,
	).Scan(&detail.RecentPublications)
	if err != nil {
		return nil, fmt.Errorf("counting recent publications for professor %d: %w", id, err)
	}

	return detail, nil
}

// Publication returns the publication with the given id, or nil if absent.
func (s *Store) Publication(ctx context.Context, id string) (*types.Publication, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT paper_id, title, abstract, venue, year, citation_count, url
		FROM publications WHERE paper_id = ?`, id)

	pub, err := scanPublication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying publication %s: %w", id, err)
	}
	return pub, nil
}

// PublicationDetail returns the publication with its ordered author list, or
// nil if absent.
func (s *Store) PublicationDetail(ctx context.Context, id string) (*types.PublicationDetail, error) {
	pub, err := s.Publication(ctx, id)
	if err != nil || pub == nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, ab.author_position, ab.is_primary_author
		FROM author_bridge ab
		JOIN professors p ON ab.professor_id = p.id
		WHERE ab.paper_id = ?
		ORDER BY ab.author_position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying authors for publication %s: %w", id, err)
	}
	defer rows.Close()

	detail := &types.PublicationDetail{Publication: *pub}
	for rows.Next() {
		var (
			a        types.PublicationAuthor
			position sql.NullInt64
		)
		if err := rows.Scan(&a.ProfessorID, &a.Name, &position, &a.IsPrimary); err != nil {
			return nil, fmt.Errorf("scanning author row: %w", err)
		}
		if position.Valid {
			a.Position = int(position.Int64)
		}
		detail.Authors = append(detail.Authors, a)
	}
	return detail, rows.Err()
}

// VocabularyTexts returns professor interests and publication titles, the two
// text streams that feed the spell-check vocabulary.
func (s *Store) VocabularyTexts(ctx context.Context) ([]string, error) {
	var texts []string

	for _, q := range []string{
		`SELECT interests FROM professors WHERE interests IS NOT NULL AND interests != ''`,
		`SELECT title FROM publications WHERE title IS NOT NULL AND title != ''`,
	} {
		rows, err := s.db.QueryContext(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("querying vocabulary texts: %w", err)
		}
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning vocabulary text: %w", err)
			}
			texts = append(texts, t)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return texts, nil
}

// TitleEntry pairs a paper id with its title for the lexical index build.
type TitleEntry struct {
	PaperID string
	Title   string
}

// Titles returns every publication with a non-empty title, ordered by paper
// id for a reproducible lexical corpus.
func (s *Store) Titles(ctx context.Context) ([]TitleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, title FROM publications
		WHERE title IS NOT NULL AND title != ''
		ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("querying titles: %w", err)
	}
	defer rows.Close()

	var entries []TitleEntry
	for rows.Next() {
		var e TitleEntry
		if err := rows.Scan(&e.PaperID, &e.Title); err != nil {
			return nil, fmt.Errorf("scanning title row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountProfessors returns the number of professor rows.
func (s *Store) CountProfessors(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM professors`).Scan(&n)
	return n, err
}

// CountPublications returns the number of publication rows.
func (s *Store) CountPublications(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM publications`).Scan(&n)
	return n, err
}

func scanProfessor(row *sql.Row) (*types.Professor, error) {
	var (
		p         types.Professor
		college   sql.NullString
		dept      sql.NullString
		interests sql.NullString
		oaID      sql.NullString
		imageURL  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &college, &dept, &interests, &oaID, &imageURL); err != nil {
		return nil, err
	}
	p.College = college.String
	p.Department = dept.String
	p.Interests = interests.String
	p.OpenAlexAuthorID = oaID.String
	p.ImageURL = imageURL.String
	return &p, nil
}

func scanPublication(row *sql.Row) (*types.Publication, error) {
	var (
		pub       types.Publication
		title     sql.NullString
		abstract  sql.NullString
		venue     sql.NullString
		year      sql.NullInt64
		citations sql.NullInt64
		url       sql.NullString
	)
	if err := row.Scan(&pub.ID, &title, &abstract, &venue, &year, &citations, &url); err != nil {
		return nil, err
	}
	pub.Title = title.String
	pub.Abstract = abstract.String
	pub.Venue = venue.String
	if year.Valid {
		pub.Year = int(year.Int64)
	}
	if citations.Valid && citations.Int64 > 0 {
		pub.Citations = int(citations.Int64)
	}
	pub.URL = url.String
	return &pub, nil
}
