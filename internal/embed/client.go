// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed calls an external embedding service to map text to
// fixed-dimension vectors. The service speaks the OpenAI-compatible
// /embeddings wire format, which local model servers also expose.
// Vectors are L2-normalized client-side so downstream inner products are
// cosine similarities.
// See docs/ARCHITECTURE.md § Retrieval Providers.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/advisor-match/internal/httputil"
	"github.com/pdiddy/advisor-match/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultDimension = 384
	defaultBatchSize = 32
)

// Client is an embedding-provider HTTP client. Embeddings are deterministic
// for fixed input, so results may be cached or precomputed freely.
type Client struct {
	cfg    types.EmbeddingConfig
	client *http.Client
}

// NewClient returns a Client with config defaults applied.
func NewClient(cfg types.EmbeddingConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = defaultDimension
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Dimension returns the configured vector dimension.
func (c *Client) Dimension() int { return c.cfg.Dimension }

// BatchSize returns the configured texts-per-request batch size.
func (c *Client) BatchSize() int { return c.cfg.BatchSize }

// Embed maps each text to a normalized vector, preserving input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingRequest{Model: c.cfg.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned HTTP %d", resp.StatusCode)
	}

	var er embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing embedding response: %w", err)
	}
	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(er.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range er.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding service returned out-of-range index %d", d.Index)
		}
		if len(d.Embedding) != c.cfg.Dimension {
			return nil, fmt.Errorf("embedding has dimension %d, expected %d", len(d.Embedding), c.cfg.Dimension)
		}
		vectors[d.Index] = normalize(d.Embedding)
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("embedding service returned no vector for input %d", i)
		}
	}
	return vectors, nil
}

// EmbedQuery maps a single query string to a normalized vector.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// normalize converts to float32 at unit L2 norm. Zero vectors pass through
// unscaled rather than dividing by zero.
func normalize(v []float64) []float32 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}

// Embedding service wire structures (OpenAI-compatible).
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []embeddingDatum `json:"data"`
}

type embeddingDatum struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}
