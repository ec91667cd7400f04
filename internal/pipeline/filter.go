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
	"log/slog"
	"strings"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/session"
)

// ContextFilter narrows retrieved tours to the destination the
// conversation is about. It never filters down to nothing: when no tour
// matches the extracted location, the full result set passes through.
type ContextFilter struct {
	extractor *LocationExtractor
	logger    *slog.Logger
}

// NewContextFilter creates a filter backed by the given location extractor.
func NewContextFilter(extractor *LocationExtractor, logger *slog.Logger) *ContextFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextFilter{
		extractor: extractor,
		logger:    logger,
	}
}

// Filter returns the tours matching the conversation's location, or the
// input unchanged when there is no history, no recognized location, or no
// match.
func (f *ContextFilter) Filter(tours []catalog.Tour, history []session.Turn) []catalog.Tour {
	if len(tours) == 0 || len(history) == 0 {
		return tours
	}

	location := f.extractor.Extract(history)
	if location == "" {
		return tours
	}

	var filtered []catalog.Tour
	for _, tour := range tours {
		if strings.Contains(strings.ToLower(tour.Location), location) ||
			strings.Contains(strings.ToLower(tour.Name), location) {
			filtered = append(filtered, tour)
		}
	}

	if len(filtered) == 0 {
		f.logger.Debug("no tours match conversation location, keeping all",
			"location", location,
			"tours", len(tours))
		return tours
	}

	f.logger.Debug("filtered tours by conversation location",
		"location", location,
		"kept", len(filtered),
		"total", len(tours))
	return filtered
}
