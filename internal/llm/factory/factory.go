//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package factory provides functions to create LLM providers from
// configuration.
package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/tourchat/tourchat-server/internal/config"
	"github.com/tourchat/tourchat-server/internal/llm"
	"github.com/tourchat/tourchat-server/internal/llm/gemini"
	"github.com/tourchat/tourchat-server/internal/llm/openai"
)

// Provider constants for matching configuration values.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderSet bundles the generators and embedder the pipeline needs. All
// Gemini providers share a single underlying API client.
type ProviderSet struct {
	Chat     llm.TextGenerator
	Backup   llm.TextGenerator
	Rewriter llm.TextGenerator
	Embedder llm.Embedder
}

// NewProviderSet creates the full provider set based on configuration.
func NewProviderSet(
	ctx context.Context,
	cfg config.LLMConfig,
	apiKeys *config.LoadedKeys,
) (*ProviderSet, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case ProviderGemini:
		return newGeminiSet(ctx, cfg, apiKeys)
	case ProviderOpenAI:
		return newOpenAISet(cfg, apiKeys)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

// newGeminiSet builds a Gemini-backed provider set.
func newGeminiSet(
	ctx context.Context,
	cfg config.LLMConfig,
	apiKeys *config.LoadedKeys,
) (*ProviderSet, error) {
	if apiKeys.Gemini == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	client, err := gemini.NewClient(ctx, apiKeys.Gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &ProviderSet{
		Chat:     gemini.NewTextGenerator(client, geminiOptions(cfg.Chat)...),
		Backup:   gemini.NewTextGenerator(client, geminiOptions(cfg.Backup)...),
		Rewriter: gemini.NewTextGenerator(client, geminiOptions(cfg.Rewriter)...),
		Embedder: gemini.NewEmbedder(client,
			gemini.WithEmbeddingModel(cfg.EmbeddingModel)),
	}, nil
}

// geminiOptions converts a model configuration to generator options.
func geminiOptions(m config.ModelConfig) []gemini.GeneratorOption {
	opts := []gemini.GeneratorOption{
		gemini.WithTemperature(m.Temperature),
		gemini.WithMaxTokens(m.MaxTokens),
	}
	if m.Model != "" {
		opts = append(opts, gemini.WithModel(m.Model))
	}
	return opts
}

// newOpenAISet builds an OpenAI-backed provider set.
func newOpenAISet(
	cfg config.LLMConfig,
	apiKeys *config.LoadedKeys,
) (*ProviderSet, error) {
	if apiKeys.OpenAI == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	// One HTTP client shared by every role, carrying any proxy and
	// timeout settings from the configuration.
	var clientOpts []openai.ClientOption
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		clientOpts = append(clientOpts, openai.WithTimeout(cfg.TimeoutSeconds))
	}
	client := openai.NewClient(apiKeys.OpenAI, clientOpts...)

	generator := func(m config.ModelConfig) llm.TextGenerator {
		opts := append(openaiOptions(m), openai.WithGeneratorClient(client))
		return openai.NewTextGenerator(apiKeys.OpenAI, opts...)
	}

	return &ProviderSet{
		Chat:     generator(cfg.Chat),
		Backup:   generator(cfg.Backup),
		Rewriter: generator(cfg.Rewriter),
		Embedder: openai.NewEmbedder(apiKeys.OpenAI,
			openai.WithEmbeddingModel(cfg.EmbeddingModel),
			openai.WithEmbedderClient(client)),
	}, nil
}

// openaiOptions converts a model configuration to generator options.
func openaiOptions(m config.ModelConfig) []openai.GeneratorOption {
	opts := []openai.GeneratorOption{
		openai.WithTemperature(m.Temperature),
		openai.WithMaxTokens(m.MaxTokens),
	}
	if m.Model != "" {
		opts = append(opts, openai.WithModel(m.Model))
	}
	return opts
}
