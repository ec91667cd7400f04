//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package catalog provides access to the tour catalog stored in MongoDB
// Atlas, including vector similarity search over tour embeddings.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tourchat/tourchat-server/internal/config"
)

// Store wraps a MongoDB client scoped to the tour collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	cfg        config.CatalogConfig
	logger     *slog.Logger
}

// StoreOption configures the store.
type StoreOption func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, cfg config.CatalogConfig, opts ...StoreOption) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping catalog: %w", err)
	}

	s := &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		cfg:        cfg,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("connected to tour catalog",
		"database", cfg.Database,
		"collection", cfg.Collection)

	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from catalog: %w", err)
	}
	return nil
}
