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
	"fmt"
	"log/slog"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/llm"
)

// CatalogSearcher is the vector search surface the retriever needs from
// the tour catalog.
type CatalogSearcher interface {
	VectorSearch(ctx context.Context, vector []float32, limit int) ([]catalog.Tour, error)
}

// Retriever embeds a query and fetches the most similar tours from the
// catalog.
type Retriever struct {
	embedder llm.Embedder
	searcher CatalogSearcher
	topK     int
	logger   *slog.Logger
}

// NewRetriever creates a retriever returning up to topK tours per query.
func NewRetriever(embedder llm.Embedder, searcher CatalogSearcher, topK int, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve returns the tours most similar to query. An embedding failure
// degrades to an empty result so the conversation can continue without
// retrieved context; a catalog failure is returned to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]catalog.Tour, error) {
	vector, err := r.embedder.Embed(ctx, query, llm.TaskQuery)
	if err != nil {
		r.logger.Warn("failed to embed query, skipping retrieval", "error", err)
		return nil, nil
	}
	if len(vector) == 0 {
		r.logger.Warn("embedder returned empty vector, skipping retrieval", "query", query)
		return nil, nil
	}

	tours, err := r.searcher.VectorSearch(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("tour search failed: %w", err)
	}

	r.logger.Debug("retrieved tours", "query", query, "count", len(tours))
	return tours, nil
}
