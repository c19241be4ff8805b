// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/advisor-match/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "advisor-match.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedCorpus ingests two professors sharing one paper, plus a solo paper each.
func seedCorpus(t *testing.T, s *Store) {
	t.Helper()
	records := []ProfessorRecord{
		{
			Professor: types.Professor{
				Name: "Ada Lovelace", College: "Engineering", Department: "CS",
				Interests:        "machine learning, program analysis",
				OpenAlexAuthorID: "https://openalex.org/A1",
			},
			Publications: []PublicationRecord{
				{
					Publication: types.Publication{
						ID: "W1", Title: "Learning to Rank Advisors",
						Year: 2024, Citations: 12, Venue: "SIGIR",
					},
					AuthorPosition: 1, IsPrimary: true,
				},
				{
					Publication: types.Publication{
						ID: "W2", Title: "Shared Robotics Paper", Year: 2022, Citations: 80,
					},
					AuthorPosition: 2,
				},
			},
		},
		{
			Professor: types.Professor{
				Name: "Grace Hopper", College: "Engineering", Department: "ECE",
				Interests:        "compilers, robotics",
				OpenAlexAuthorID: "https://openalex.org/A2",
			},
			Publications: []PublicationRecord{
				{
					Publication: types.Publication{
						ID: "W2", Title: "Shared Robotics Paper", Year: 2022, Citations: 80,
					},
					AuthorPosition: 1, IsPrimary: true,
				},
				{
					// No year, no position: both unknown.
					Publication: types.Publication{ID: "W3", Title: "Undated Notes"},
				},
			},
		},
	}

	_, err := s.Ingest(context.Background(), records, io.Discard)
	require.NoError(t, err)
}

func TestIngestIsIdempotent(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)
	seedCorpus(t, s)

	ctx := context.Background()
	profs, err := s.CountProfessors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, profs)

	pubs, err := s.CountPublications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pubs)
}

func TestCandidateAuthorshipsJoin(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	rows, err := s.CandidateAuthorships(context.Background(), []string{"W1", "W2", "W-missing"})
	require.NoError(t, err)

	// W1 has one author, W2 has two; the unknown paper contributes nothing.
	require.Len(t, rows, 3)

	byPaper := map[string][]types.CandidateAuthorship{}
	for _, r := range rows {
		byPaper[r.PaperID] = append(byPaper[r.PaperID], r)
	}

	require.Len(t, byPaper["W1"], 1)
	assert.Equal(t, 1, byPaper["W1"][0].AuthorPosition)
	assert.Equal(t, 2024, byPaper["W1"][0].Year)
	assert.Equal(t, 12, byPaper["W1"][0].Citations)

	require.Len(t, byPaper["W2"], 2)
	positions := []int{byPaper["W2"][0].AuthorPosition, byPaper["W2"][1].AuthorPosition}
	assert.ElementsMatch(t, []int{1, 2}, positions)

	assert.Empty(t, byPaper["W-missing"])
}

func TestCandidateAuthorshipsUnknownFields(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	rows, err := s.CandidateAuthorships(context.Background(), []string{"W3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Zero(t, rows[0].Year)
	assert.Zero(t, rows[0].AuthorPosition)
	assert.Zero(t, rows[0].Citations)
}

func TestCandidateAuthorshipsEmptyInput(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	rows, err := s.CandidateAuthorships(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestProfessorLookup(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)
	ctx := context.Background()

	p, err := s.Professor(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "CS", p.Department)

	missing, err := s.Professor(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProfessorDetailCounts(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	detail, err := s.ProfessorDetail(context.Background(), 1, 2023)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, 2, detail.TotalPublications)
	// Only W1 (2024) is at or after 2023; W2 is 2022.
	assert.Equal(t, 1, detail.RecentPublications)
}

func TestPublicationDetailAuthorsOrdered(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	detail, err := s.PublicationDetail(context.Background(), "W2")
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.Authors, 2)

	assert.Equal(t, "Grace Hopper", detail.Authors[0].Name)
	assert.True(t, detail.Authors[0].IsPrimary)
	assert.Equal(t, "Ada Lovelace", detail.Authors[1].Name)
	assert.Equal(t, 2, detail.Authors[1].Position)

	missing, err := s.PublicationDetail(context.Background(), "W-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVocabularyTexts(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	texts, err := s.VocabularyTexts(context.Background())
	require.NoError(t, err)

	// 2 interest strings + 3 titles.
	assert.Len(t, texts, 5)
	assert.Contains(t, texts, "machine learning, program analysis")
	assert.Contains(t, texts, "Learning to Rank Advisors")
}

func TestEmbeddingRoundTrip(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)
	ctx := context.Background()

	missing, err := s.PublicationsMissingEmbedding(ctx)
	require.NoError(t, err)
	assert.Len(t, missing, 3)

	vec := []float32{0.1, -0.5, 0.25, 1}
	require.NoError(t, s.SaveEmbedding(ctx, "W1", vec))

	missing, err = s.PublicationsMissingEmbedding(ctx)
	require.NoError(t, err)
	assert.Len(t, missing, 2)

	stored, err := s.Embeddings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "W1", stored[0].PaperID)
	assert.Equal(t, vec, stored[0].Vector)
}

func TestSaveEmbeddingUnknownPaper(t *testing.T) {
	s := testStore(t)
	seedCorpus(t, s)

	err := s.SaveEmbedding(context.Background(), "W-missing", []float32{1})
	assert.Error(t, err)
}
