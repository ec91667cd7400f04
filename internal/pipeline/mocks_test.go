//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/llm"
)

// mockGenerator is a test implementation of llm.TextGenerator with an
// overridable Generate function.
type mockGenerator struct {
	model        string
	generateFunc func(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &llm.GenerateResponse{Text: "mock answer", Status: llm.FinishStop}, nil
}

func (m *mockGenerator) ModelName() string {
	if m.model == "" {
		return "mock-model"
	}
	return m.model
}

// stoppedGenerator returns a generator that always completes with the
// given text.
func stoppedGenerator(text string) *mockGenerator {
	return &mockGenerator{
		generateFunc: func(_ context.Context, _ llm.GenerateRequest) (*llm.GenerateResponse, error) {
			return &llm.GenerateResponse{Text: text, Status: llm.FinishStop}, nil
		},
	}
}

// mockEmbedder is a test implementation of llm.Embedder.
type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string, task llm.Task) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string, task llm.Task) ([]float32, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text, task)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

// mockSearcher is a test implementation of CatalogSearcher.
type mockSearcher struct {
	searchFunc func(ctx context.Context, vector []float32, limit int) ([]catalog.Tour, error)
}

func (m *mockSearcher) VectorSearch(ctx context.Context, vector []float32, limit int) ([]catalog.Tour, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, vector, limit)
	}
	return nil, nil
}

var _ llm.TextGenerator = (*mockGenerator)(nil)
var _ llm.Embedder = (*mockEmbedder)(nil)
var _ CatalogSearcher = (*mockSearcher)(nil)
