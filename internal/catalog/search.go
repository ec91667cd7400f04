//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/tourchat/tourchat-server/internal/config"
)

// Tour is a single catalog entry returned from vector search. Score is the
// Atlas vectorSearchScore for the query that produced it.
type Tour struct {
	Name     string   `bson:"name" json:"name"`
	Location string   `bson:"location" json:"location"`
	Duration string   `bson:"time" json:"time"`
	Price    int      `bson:"price" json:"price"`
	Guests   int      `bson:"guest" json:"guest"`
	Schedule string   `bson:"schedule" json:"schedule"`
	Services []string `bson:"service" json:"service"`
	Images   []string `bson:"images" json:"images,omitempty"`
	Score    float64  `bson:"score" json:"score"`
}

// VectorSearch runs an Atlas $vectorSearch over tour embeddings and returns
// up to limit tours ordered by similarity.
func (s *Store) VectorSearch(ctx context.Context, vector []float32, limit int) ([]Tour, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive")
	}

	pipeline := searchPipeline(s.cfg, vector, limit)

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var tours []Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	s.logger.Debug("vector search completed",
		"requested", limit,
		"returned", len(tours))

	return tours, nil
}

// searchPipeline builds the $vectorSearch aggregation pipeline. The
// embedding field is dropped from the projection so result documents stay
// small.
func searchPipeline(cfg config.CatalogConfig, vector []float32, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: cfg.VectorIndex},
			{Key: "path", Value: cfg.EmbeddingPath},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: cfg.NumCandidates},
			{Key: "limit", Value: limit},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: 1},
			{Key: "location", Value: 1},
			{Key: "time", Value: 1},
			{Key: "price", Value: 1},
			{Key: "guest", Value: 1},
			{Key: "schedule", Value: 1},
			{Key: "service", Value: 1},
			{Key: "images", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
