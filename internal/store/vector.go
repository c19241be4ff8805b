// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// EmbeddingSource is a publication awaiting embedding: the paper id and the
// text to embed (title plus abstract).
type EmbeddingSource struct {
	PaperID string
	Text    string
}

// StoredEmbedding is one precomputed publication vector.
type StoredEmbedding struct {
	PaperID string
	Vector  []float32
}

// PublicationsMissingEmbedding returns the publications that have no stored
// vector yet, ordered by paper id for reproducible batching.
func (s *Store) PublicationsMissingEmbedding(ctx context.Context) ([]EmbeddingSource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, title, COALESCE(abstract, '')
		FROM publications
		WHERE embedding IS NULL AND title IS NOT NULL AND title != ''
		ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("querying unembedded publications: %w", err)
	}
	defer rows.Close()

	var sources []EmbeddingSource
	for rows.Next() {
		var src EmbeddingSource
		var title, abstract string
		if err := rows.Scan(&src.PaperID, &title, &abstract); err != nil {
			return nil, fmt.Errorf("scanning unembedded publication: %w", err)
		}
		src.Text = strings.TrimSpace(title + "\n\n" + abstract)
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// SaveEmbedding stores a publication vector as raw little-endian float32 bytes.
func (s *Store) SaveEmbedding(ctx context.Context, paperID string, vector []float32) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE publications SET embedding = ? WHERE paper_id = ?`,
		encodeVector(vector), paperID)
	if err != nil {
		return fmt.Errorf("saving embedding for %s: %w", paperID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("saving embedding: publication %s not found", paperID)
	}
	return nil
}

// Embeddings returns every stored publication vector, ordered by paper id so
// index builds are reproducible.
func (s *Store) Embeddings(ctx context.Context) ([]StoredEmbedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, embedding FROM publications
		WHERE embedding IS NOT NULL
		ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings []StoredEmbedding
	for rows.Next() {
		var e StoredEmbedding
		var blob []byte
		if err := rows.Scan(&e.PaperID, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding row: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", e.PaperID, err)
		}
		e.Vector = vec
		embeddings = append(embeddings, e)
	}
	return embeddings, rows.Err()
}

// encodeVector serializes a vector as little-endian float32 bytes.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector parses little-endian float32 bytes back into a vector.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
