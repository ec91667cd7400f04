//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/tourchat/tourchat-server/internal/llm"
)

// Gemini task types for asymmetric retrieval embeddings.
const (
	taskTypeRetrievalQuery    = "RETRIEVAL_QUERY"
	taskTypeRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Embedder implements the llm.Embedder interface.
type Embedder struct {
	client     *Client
	model      string
	dimensions int
}

// NewEmbedder creates a new Gemini embedding provider.
func NewEmbedder(client *Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:     client,
		model:      defaultEmbeddingModel,
		dimensions: 768, // Default for text-embedding-004
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

// Embed generates an embedding for a single text. The task selects the
// query or document side of the asymmetric retrieval scheme.
func (e *Embedder) Embed(
	ctx context.Context,
	text string,
	task llm.Task,
) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	taskType := taskTypeRetrievalDocument
	if task == llm.TaskQuery {
		taskType = taskTypeRetrievalQuery
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	resp, err := e.client.genai.Models.EmbedContent(ctx, e.model, contents,
		&genai.EmbedContentConfig{
			TaskType: taskType,
		})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return resp.Embeddings[0].Values, nil
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
