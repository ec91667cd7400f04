//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/tourchat/tourchat-server/internal/llm"
)

// TextGenerator implements the llm.TextGenerator interface.
type TextGenerator struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

// NewTextGenerator creates a new Gemini text generator.
func NewTextGenerator(client *Client, opts ...GeneratorOption) *TextGenerator {
	g := &TextGenerator{
		client:      client,
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

// WithModel sets the generation model.
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

// Generate produces a completion for the given request. The conversation
// history, if any, is sent ahead of the prompt as alternating user/model
// turns.
func (g *TextGenerator) Generate(
	ctx context.Context,
	req llm.GenerateRequest,
) (*llm.GenerateResponse, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.temperature)),
		MaxOutputTokens: int32(g.maxTokens),
		SafetySettings:  noFilterSafetySettings(),
	}

	resp, err := g.client.genai.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return responseFromCandidates(resp), nil
}

// responseFromCandidates maps a raw Gemini response onto the provider
// status taxonomy.
func responseFromCandidates(resp *genai.GenerateContentResponse) *llm.GenerateResponse {
	if resp == nil || len(resp.Candidates) == 0 {
		return &llm.GenerateResponse{Status: llm.FinishEmpty}
	}

	cand := resp.Candidates[0]
	text := candidateText(cand)

	return &llm.GenerateResponse{
		Text:   text,
		Status: mapFinishReason(cand.FinishReason, text),
	}
}

// candidateText concatenates the text parts of a candidate.
func candidateText(cand *genai.Candidate) string {
	if cand == nil || cand.Content == nil {
		return ""
	}
	var text string
	for _, part := range cand.Content.Parts {
		text += part.Text
	}
	return text
}

// mapFinishReason converts a Gemini finish reason to a FinishStatus.
func mapFinishReason(reason genai.FinishReason, text string) llm.FinishStatus {
	switch reason {
	case genai.FinishReasonStop:
		if text == "" {
			return llm.FinishEmpty
		}
		return llm.FinishStop
	case genai.FinishReasonMaxTokens:
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
