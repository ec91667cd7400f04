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
	"strings"

	"github.com/tourchat/tourchat-server/internal/llm"
	"github.com/tourchat/tourchat-server/internal/session"
)

// knownLocations is the gazetteer of destinations recognized in user
// messages, all lowercase.
var knownLocations = []string{
	"đà nẵng", "huế", "nha trang", "phú quốc", "hà nội",
	"sài gòn", "vũng tàu", "đà lạt", "hạ long", "sapa",
	"quy nhơn", "phan thiết", "mũi né", "cần thơ", "hội an",
}

// LocationExtractor finds the destination the conversation is about by
// scanning recent user turns.
type LocationExtractor struct {
	window int
}

// NewLocationExtractor creates an extractor that scans the last window
// turns of history.
func NewLocationExtractor(window int) *LocationExtractor {
	return &LocationExtractor{window: window}
}

// Extract returns the most recently mentioned known location, or "" when
// no recent user turn names one. Only user turns count; assistant answers
// routinely mention several destinations.
func (e *LocationExtractor) Extract(history []session.Turn) string {
	if len(history) == 0 {
		return ""
	}

	recent := history
	if e.window > 0 && len(history) > e.window {
		recent = history[len(history)-e.window:]
	}

	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role != llm.RoleUser {
			continue
		}
		text := strings.ToLower(recent[i].Text)
		for _, location := range knownLocations {
			if strings.Contains(text, location) {
				return location
			}
		}
	}
	return ""
}
