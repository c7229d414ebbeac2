// internal/embedding/client.go
// Client for an Ollama-compatible embedding endpoint

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultModel is the bio embedding model.
	DefaultModel = "nomic-embed-text"

	// DefaultDimension is the vector size DefaultModel produces.
	DefaultDimension = 768

	defaultTimeout = 30 * time.Second
)

var ErrEmptyResponse = errors.New("embedding response contained no vector")

// Client produces an embedding vector for a piece of text
type Client interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HTTPClient calls an Ollama-style /api/embed endpoint
type HTTPClient struct {
	endpoint   string
	model      string
	dimension  int
	httpClient *http.Client
}

// NewHTTPClient creates an embedding client. endpoint is the full URL,
// e.g. http://localhost:11434/api/embed. dimension 0 disables the
// response size check.
func NewHTTPClient(endpoint, model string, dimension int) *HTTPClient {
	if model == "" {
		model = DefaultModel
	}
	return &HTTPClient{
		endpoint:  endpoint,
		model:     model,
		dimension: dimension,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// Newer Ollama builds return "embeddings" (batched); older ones return
// a single "embedding". Accept both.
type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Embedding  []float64   `json:"embedding"`
}

// Embed returns the embedding vector for text
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}

	var vec []float64
	switch {
	case len(decoded.Embeddings) > 0:
		vec = decoded.Embeddings[0]
	case len(decoded.Embedding) > 0:
		vec = decoded.Embedding
	default:
		return nil, ErrEmptyResponse
	}

	if c.dimension > 0 && len(vec) != c.dimension {
		return nil, fmt.Errorf("embedding has dimension %d, expected %d", len(vec), c.dimension)
	}
	return vec, nil
}
