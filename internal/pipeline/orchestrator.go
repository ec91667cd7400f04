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
	"log/slog"

	"github.com/tourchat/tourchat-server/internal/session"
)

// Orchestrator coordinates the conversational pipeline: rate limiting,
// query rewriting, retrieval, context filtering, answer generation, and
// transcript persistence.
type Orchestrator struct {
	sessions  *session.Store
	limiter   *session.RateLimiter
	rewriter  *QueryRewriter
	retriever *Retriever
	filter    *ContextFilter
	answerer  *AnswerGenerator
	maxTours  int
	logger    *slog.Logger
}

// OrchestratorConfig contains the configuration for creating an
// orchestrator.
type OrchestratorConfig struct {
	Sessions  *session.Store
	Limiter   *session.RateLimiter
	Rewriter  *QueryRewriter
	Retriever *Retriever
	Filter    *ContextFilter
	Answerer  *AnswerGenerator
	MaxTours  int
	Logger    *slog.Logger
}

// NewOrchestrator creates a new pipeline orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		sessions:  cfg.Sessions,
		limiter:   cfg.Limiter,
		rewriter:  cfg.Rewriter,
		retriever: cfg.Retriever,
		filter:    cfg.Filter,
		answerer:  cfg.Answerer,
		maxTours:  cfg.MaxTours,
		logger:    logger,
	}
}

// Chat runs the full pipeline for one user query. The answer is generated
// from the original query; the rewritten query is used only for retrieval.
// The exchange is appended to the session transcript only after an answer
// exists, so a failed request never leaves a half-written turn behind.
func (o *Orchestrator) Chat(ctx context.Context, query, sessionID string) (*Result, error) {
	o.logger.Debug("chat request", "session_id", sessionID, "query", query)

	if o.limiter != nil {
		if err := o.limiter.Throttle(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	history := o.sessions.History(sessionID)

	rewritten := o.rewriter.Rewrite(ctx, query, history)

	tours, err := o.retriever.Retrieve(ctx, rewritten)
	if err != nil {
		return nil, err
	}

	filtered := o.filter.Filter(tours, history)
	if o.maxTours > 0 && len(filtered) > o.maxTours {
		filtered = filtered[:o.maxTours]
	}

	answer := o.answerer.Generate(ctx, query, filtered, history)

	o.sessions.AppendPair(sessionID, query, answer)

	return &Result{
		Query:          query,
		RewrittenQuery: rewritten,
		Answer:         answer,
		Tours:          filtered,
		SessionID:      sessionID,
		History:        o.sessions.History(sessionID),
	}, nil
}

// History returns the transcript for a session, oldest turn first.
func (o *Orchestrator) History(sessionID string) []session.Turn {
	return o.sessions.History(sessionID)
}

// Clear removes a session's transcript and rate limit state. It reports
// whether the session existed.
func (o *Orchestrator) Clear(sessionID string) bool {
	if o.limiter != nil {
		o.limiter.Forget(sessionID)
	}
	cleared := o.sessions.Clear(sessionID)
	if cleared {
		o.logger.Info("cleared chat session", "session_id", sessionID)
	}
	return cleared
}
