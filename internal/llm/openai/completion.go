//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tourchat/tourchat-server/internal/llm"
)

// TextGenerator implements the llm.TextGenerator interface.
type TextGenerator struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

// NewTextGenerator creates a new OpenAI text generator.
func NewTextGenerator(apiKey string, opts ...GeneratorOption) *TextGenerator {
	g := &TextGenerator{
		client:      NewClient(apiKey),
		model:       defaultChatModel,
		maxTokens:   1024,
		temperature: 0.6,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratorOption configures the text generator.
type GeneratorOption func(*TextGenerator)

// WithModel sets the chat model.
func WithModel(model string) GeneratorOption {
	return func(g *TextGenerator) {
		g.model = model
	}
}

// WithMaxTokens sets the output token limit.
func WithMaxTokens(tokens int) GeneratorOption {
	return func(g *TextGenerator) {
		g.maxTokens = tokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) GeneratorOption {
	return func(g *TextGenerator) {
		g.temperature = temp
	}
}

// WithGeneratorClient sets a custom client.
func WithGeneratorClient(client *Client) GeneratorOption {
	return func(g *TextGenerator) {
		g.client = client
	}
}

// chatMessage represents a message in the chat format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request format for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// chatResponse is the response format from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Generate produces a completion for the given request.
func (g *TextGenerator) Generate(
	ctx context.Context,
	req llm.GenerateRequest,
) (*llm.GenerateResponse, error) {
	messages := make([]chatMessage, 0, len(req.History)+1)
	for _, m := range req.History {
		messages = append(messages, chatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	chatReq := chatRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	resp, err := g.client.request(ctx, http.MethodPost, "/chat/completions", chatReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return &llm.GenerateResponse{Status: llm.FinishEmpty}, nil
	}

	choice := chatResp.Choices[0]
	return &llm.GenerateResponse{
		Text:   choice.Message.Content,
		Status: mapFinishReason(choice.FinishReason, choice.Message.Content),
	}, nil
}

// mapFinishReason converts an OpenAI finish reason to a FinishStatus.
func mapFinishReason(reason, text string) llm.FinishStatus {
	switch reason {
	case "stop":
		if text == "" {
			return llm.FinishEmpty
		}
		return llm.FinishStop
	case "length":
		return llm.FinishLength
	default:
		return llm.FinishBlocked
	}
}

// ModelName returns the model name.
func (g *TextGenerator) ModelName() string {
	return g.model
}

// Ensure TextGenerator implements the interface.
var _ llm.TextGenerator = (*TextGenerator)(nil)
