//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tourchat/tourchat-server/internal/llm"
)

// Embedder implements the llm.Embedder interface. OpenAI embeddings are
// symmetric, so the query/document task flag is accepted and ignored.
type Embedder struct {
	client     *Client
	model      string
	dimensions int
}

// NewEmbedder creates a new OpenAI embedding provider.
func NewEmbedder(apiKey string, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:     NewClient(apiKey),
		model:      defaultEmbeddingModel,
		dimensions: 1536, // Default for text-embedding-3-small
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmbedderOption configures the embedding provider.
type EmbedderOption func(*Embedder)

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithDimensions sets the expected embedding dimensions.
func WithDimensions(dims int) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = dims
	}
}

// WithEmbedderClient sets a custom client.
func WithEmbedderClient(client *Client) EmbedderOption {
	return func(e *Embedder) {
		e.client = client
	}
}

// embeddingRequest is the request format for the embeddings API.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the response format from the embeddings API.
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed generates an embedding for a single text.
func (e *Embedder) Embed(
	ctx context.Context,
	text string,
	_ llm.Task,
) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	reqBody := embeddingRequest{
		Model: e.model,
		Input: []string{text},
	}

	resp, err := e.client.request(ctx, http.MethodPost, "/embeddings", reqBody)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return embResp.Data[0].Embedding, nil
}

// Dimensions returns the dimensionality of embeddings.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the model name.
func (e *Embedder) ModelName() string {
	return e.model
}

// Ensure Embedder implements the interface.
var _ llm.Embedder = (*Embedder)(nil)
