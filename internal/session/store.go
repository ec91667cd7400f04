//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package session tracks per-session conversation state: transcripts of
// user and assistant turns, plus the per-session request rate limit.
package session

import (
	"sync"

	"github.com/tourchat/tourchat-server/internal/llm"
)

// Turn is a single entry in a session transcript.
type Turn struct {
	Role llm.Role `json:"role"`
	Text string   `json:"text"`
}

// Store holds session transcripts in memory. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]Turn),
	}
}

// History returns a copy of the transcript for the given session, oldest
// turn first. An unknown session yields an empty history.
func (s *Store) History(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// AppendPair records a completed exchange: the user's query followed by the
// assistant's answer. Appending to an unknown session creates it.
func (s *Store) AppendPair(sessionID, query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID],
		Turn{Role: llm.RoleUser, Text: query},
		Turn{Role: llm.RoleAssistant, Text: answer},
	)
}

// Clear removes the transcript for the given session. It reports whether
// the session existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
