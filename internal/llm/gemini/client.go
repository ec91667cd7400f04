//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package gemini provides Gemini generation and embedding providers backed
// by the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultChatModel      = "gemini-2.0-flash"
	defaultEmbeddingModel = "text-embedding-004"
)

// Client wraps a genai.Client shared by all Gemini providers in a process.
type Client struct {
	genai *genai.Client
}

// NewClient creates a new Gemini API client.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{genai: c}, nil
}

// noFilterSafetySettings disables the provider's additional content
// filtering, leaving only the non-configurable defaults in place.
func noFilterSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}
