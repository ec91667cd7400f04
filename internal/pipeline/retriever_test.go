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
	"errors"
	"testing"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/llm"
)

func TestRetriever_Success(t *testing.T) {
	var gotLimit int
	var gotTask llm.Task

	embedder := &mockEmbedder{
		embedFunc: func(_ context.Context, _ string, task llm.Task) ([]float32, error) {
			gotTask = task
			return []float32{0.5, 0.5}, nil
		},
	}
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, vector []float32, limit int) ([]catalog.Tour, error) {
			gotLimit = limit
			return []catalog.Tour{{Name: "Tour Huế"}}, nil
		},
	}

	retriever := NewRetriever(embedder, searcher, 10, nil)
	tours, err := retriever.Retrieve(context.Background(), "tour Huế 2 ngày")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(tours) != 1 {
		t.Errorf("expected 1 tour, got %d", len(tours))
	}
	if gotLimit != 10 {
		t.Errorf("expected search limit 10, got %d", gotLimit)
	}
	if gotTask != llm.TaskQuery {
		t.Errorf("expected query task type, got %s", gotTask)
	}
}

func TestRetriever_EmbeddingFailureDegrades(t *testing.T) {
	embedder := &mockEmbedder{
		embedFunc: func(_ context.Context, _ string, _ llm.Task) ([]float32, error) {
			return nil, errors.New("embedding api down")
		},
	}
	searchCalled := false
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, _ int) ([]catalog.Tour, error) {
			searchCalled = true
			return nil, nil
		},
	}

	retriever := NewRetriever(embedder, searcher, 10, nil)
	tours, err := retriever.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("embedding failure should not be an error, got %v", err)
	}
	if tours != nil {
		t.Errorf("expected no tours, got %v", tours)
	}
	if searchCalled {
		t.Error("search should be skipped when embedding fails")
	}
}

func TestRetriever_EmptyEmbeddingDegrades(t *testing.T) {
	embedder := &mockEmbedder{
		embedFunc: func(_ context.Context, _ string, _ llm.Task) ([]float32, error) {
			return []float32{}, nil
		},
	}
	searchCalled := false
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, _ int) ([]catalog.Tour, error) {
			searchCalled = true
			return nil, nil
		},
	}

	retriever := NewRetriever(embedder, searcher, 10, nil)
	tours, err := retriever.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("empty embedding should not be an error, got %v", err)
	}
	if tours != nil {
		t.Errorf("expected no tours, got %v", tours)
	}
	if searchCalled {
		t.Error("search should be skipped when the embedding is empty")
	}
}

func TestRetriever_SearchFailurePropagates(t *testing.T) {
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ []float32, _ int) ([]catalog.Tour, error) {
			return nil, errors.New("catalog unreachable")
		},
	}

	retriever := NewRetriever(&mockEmbedder{}, searcher, 10, nil)
	if _, err := retriever.Retrieve(context.Background(), "q"); err == nil {
		t.Fatal("expected error from failed search")
	}
}
