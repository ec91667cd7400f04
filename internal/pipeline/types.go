//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package pipeline implements the conversational RAG pipeline: query
// rewriting, tour retrieval, context filtering, and answer generation,
// coordinated per chat session.
package pipeline

import (
	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/session"
)

// Result is the outcome of one pipeline execution.
type Result struct {
	Query          string         `json:"query"`
	RewrittenQuery string         `json:"rewritten_query"`
	Answer         string         `json:"answer"`
	Tours          []catalog.Tour `json:"tours"`
	SessionID      string         `json:"session_id"`
	History        []session.Turn `json:"chat_history"`
}
