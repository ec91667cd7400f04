//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package llm provides interfaces and implementations for LLM providers.
package llm

import "context"

// FinishStatus classifies why a generation call stopped.
type FinishStatus int

const (
	// FinishEmpty means the provider returned no candidate output at all.
	FinishEmpty FinishStatus = iota

	// FinishStop is a normal completion.
	FinishStop

	// FinishLength means generation was truncated at the output token limit.
	// Partial text may still be present in the response.
	FinishLength

	// FinishBlocked covers every other stop: safety blocks, recitation,
	// provider-specific refusals.
	FinishBlocked
)

// String returns a human-readable name for the finish status.
func (s FinishStatus) String() string {
	switch s {
	case FinishEmpty:
		return "empty"
	case FinishStop:
		return "stop"
	case FinishLength:
		return "length"
	case FinishBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// GenerateRequest represents a request to an LLM for text generation.
type GenerateRequest struct {
	// Prompt is the message to generate a response for.
	Prompt string

	// History is the prior conversation, oldest turn first.
	History []Message
}

// GenerateResponse represents a completed generation call.
type GenerateResponse struct {
	Text   string
	Status FinishStatus
}

// TextGenerator generates text completions using an LLM. Sampling
// settings (temperature, output limit) are fixed per generator at
// construction time.
type TextGenerator interface {
	// Generate produces a completion for the given request.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// Task selects the embedding optimization mode. Query and document
// embeddings are asymmetric on providers that support it.
type Task string

const (
	TaskQuery    Task = "query"
	TaskDocument Task = "document"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string, task Task) ([]float32, error)

	// Dimensions returns the dimensionality of embeddings produced.
	Dimensions() int

	// ModelName returns the name of the model being used.
	ModelName() string
}
