// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/advisor-match/pkg/types"
)

type fakeMetadata struct {
	professors   map[int64]types.Professor
	publications map[string]types.Publication
	err          error
}

func (f *fakeMetadata) Professor(ctx context.Context, id int64) (*types.Professor, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.professors[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeMetadata) Publication(ctx context.Context, id string) (*types.Publication, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.publications[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func testMetadata() *fakeMetadata {
	return &fakeMetadata{
		professors: map[int64]types.Professor{
			1: {ID: 1, Name: "Ada Lovelace", Department: "Computer Science"},
			2: {ID: 2, Name: "Grace Hopper", Department: "Computer Science"},
		},
		publications: map[string]types.Publication{
			"W1": {ID: "W1", Title: "Analytical Engines", Year: 2024},
			"W2": {ID: "W2", Title: "Compilers", Year: 2022},
			"W3": {ID: "W3", Title: "Subroutines", Year: 2021},
			"W4": {ID: "W4", Title: "Flowcharts", Year: 2020},
		},
	}
}

func TestAssemblePreservesOrderAndAttachesEvidence(t *testing.T) {
	scored := []types.ScoredProfessor{
		{ProfessorID: 2, FinalScore: 0.9, EvidencePaperIDs: []string{"W2", "W3"}},
		{ProfessorID: 1, FinalScore: 0.7, EvidencePaperIDs: []string{"W1"}},
	}
	rawScores := map[string]float64{"W1": 0.71, "W2": 0.92, "W3": 0.55}

	results, err := Assemble(context.Background(), testMetadata(), scored, rawScores, 3, true)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Grace Hopper", results[0].Professor.Name)
	assert.Equal(t, "Ada Lovelace", results[1].Professor.Name)

	require.Len(t, results[0].Evidence, 2)
	assert.Equal(t, "W2", results[0].Evidence[0].ID)
	assert.Equal(t, 0.92, results[0].Evidence[0].RawScore)
	assert.Equal(t, "Compilers", results[0].Evidence[0].Title)
}

func TestAssembleBoundsEvidenceCount(t *testing.T) {
	scored := []types.ScoredProfessor{
		{ProfessorID: 1, EvidencePaperIDs: []string{"W1", "W2", "W3", "W4"}},
	}

	results, err := Assemble(context.Background(), testMetadata(), scored, nil, 2, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Evidence, 2)
	assert.Equal(t, "W1", results[0].Evidence[0].ID)
	assert.Equal(t, "W2", results[0].Evidence[1].ID)
}

func TestAssembleDropsMissingProfessor(t *testing.T) {
	scored := []types.ScoredProfessor{
		{ProfessorID: 99, FinalScore: 0.9},
		{ProfessorID: 1, FinalScore: 0.5},
	}

	results, err := Assemble(context.Background(), testMetadata(), scored, nil, 3, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ProfessorID)
}

func TestAssembleSkipsMissingPublication(t *testing.T) {
	scored := []types.ScoredProfessor{
		{ProfessorID: 1, EvidencePaperIDs: []string{"W404", "W1"}},
	}

	results, err := Assemble(context.Background(), testMetadata(), scored, nil, 3, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Evidence, 1)
	assert.Equal(t, "W1", results[0].Evidence[0].ID)
}

func TestAssembleWithoutEvidence(t *testing.T) {
	scored := []types.ScoredProfessor{
		{ProfessorID: 1, EvidencePaperIDs: []string{"W1"}},
	}

	results, err := Assemble(context.Background(), testMetadata(), scored, nil, 3, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Evidence)
}

func TestAssembleStoreError(t *testing.T) {
	boom := errors.New("db closed")
	_, err := Assemble(context.Background(), &fakeMetadata{err: boom}, []types.ScoredProfessor{{ProfessorID: 1}}, nil, 3, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
