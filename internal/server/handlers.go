//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/session"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the response for the chat endpoint.
type ChatResponse struct {
	Query          string         `json:"query"`
	RewrittenQuery string         `json:"rewritten_query"`
	Answer         string         `json:"answer"`
	Tours          []catalog.Tour `json:"tours"`
	SessionID      string         `json:"session_id"`
}

// HistoryResponse is the response for the chat history endpoint.
type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	History   []session.Turn `json:"history"`
}

// ClearRequest is the request body for the clear endpoint.
type ClearRequest struct {
	SessionID string `json:"session_id"`
}

// ClearResponse is the response for the clear endpoint.
type ClearResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles the GET /v1/health endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// handleChat handles GET and POST /v1/chat. GET carries the query in URL
// parameters; POST carries a JSON body. A missing session_id starts a new
// session under a generated ID.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest

	if r.Method == http.MethodGet {
		req.Query = r.URL.Query().Get("query")
		req.SessionID = r.URL.Query().Get("session_id")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST",
				"invalid request body: "+err.Error())
			return
		}
	}

	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "query is required")
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
		s.logger.Debug("generated new session", "session_id", req.SessionID)
	}

	result, err := s.chat.Chat(r.Context(), req.Query, req.SessionID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Debug("chat request canceled", "session_id", req.SessionID)
			return
		}
		s.logger.Error("chat pipeline failed",
			"session_id", req.SessionID,
			"error", err)
		s.respondError(w, http.StatusInternalServerError, "EXECUTION_ERROR", err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ChatResponse{
		Query:          result.Query,
		RewrittenQuery: result.RewrittenQuery,
		Answer:         result.Answer,
		Tours:          result.Tours,
		SessionID:      result.SessionID,
	})
}

// handleChatHistory handles the GET /v1/chat/history endpoint.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "session_id is required")
		return
	}

	s.respondJSON(w, http.StatusOK, HistoryResponse{
		SessionID: sessionID,
		History:   s.chat.History(sessionID),
	})
}

// handleChatClear handles the POST /v1/chat/clear endpoint.
func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request body: "+err.Error())
		return
	}

	if req.SessionID == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "session_id is required")
		return
	}

	if !s.chat.Clear(req.SessionID) {
		s.respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND",
			"no chat session found for "+req.SessionID)
		return
	}

	s.respondJSON(w, http.StatusOK, ClearResponse{
		SessionID: req.SessionID,
		Cleared:   true,
	})
}

// respondJSON sends a JSON response with RFC 8631 Link header for API discovery.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	// RFC 8631: Link header for API documentation discovery
	w.Header().Set("Link", `</v1/openapi.json>; rel="service-desc"`)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
