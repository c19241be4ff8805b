// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *Flat {
	t.Helper()
	f, err := New(3)
	require.NoError(t, err)

	// Unit vectors: inner product == cosine similarity.
	require.NoError(t, f.Add("W1", []float32{1, 0, 0}))
	require.NoError(t, f.Add("W2", []float32{0, 1, 0}))
	require.NoError(t, f.Add("W3", []float32{0.6, 0.8, 0}))
	return f
}

func TestNewRejectsBadDimension(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
	_, err = New(-5)
	assert.Error(t, err)
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	f, err := New(3)
	require.NoError(t, err)
	assert.Error(t, f.Add("W1", []float32{1, 0}))
}

func TestSearchSelfSimilarityTopHit(t *testing.T) {
	f := testIndex(t)

	got, err := f.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "W1", got[0].PaperID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	// W3 (0.6 similarity) beats W2 (0.0).
	assert.Equal(t, "W3", got[1].PaperID)
	assert.Equal(t, "W2", got[2].PaperID)
}

func TestSearchClampsK(t *testing.T) {
	f := testIndex(t)

	got, err := f.Search([]float32{0, 1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = f.Search([]float32{0, 1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchDimensionMismatch(t *testing.T) {
	f := testIndex(t)
	_, err := f.Search([]float32{1, 0}, 3)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := testIndex(t)
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "vectors.idx")
	mappingPath := filepath.Join(dir, "paper_id_mapping.json")

	require.NoError(t, f.Save(indexPath, mappingPath))

	loaded, err := Load(indexPath)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
	assert.Equal(t, 3, loaded.Dimension())

	got, err := loaded.Search([]float32{0.6, 0.8, 0}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "W3", got[0].PaperID)

	// The JSON sidecar carries the dense position mapping.
	data, err := os.ReadFile(mappingPath)
	require.NoError(t, err)
	var mapping map[int]string
	require.NoError(t, json.Unmarshal(data, &mapping))
	assert.Equal(t, map[int]string{0: "W1", 1: "W2", 2: "W3"}, mapping)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.idx"))
	assert.Error(t, err)
}
