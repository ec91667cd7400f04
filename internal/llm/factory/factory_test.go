//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package factory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tourchat/tourchat-server/internal/config"
	"github.com/tourchat/tourchat-server/internal/llm"
)

func testLLMConfig(provider string) config.LLMConfig {
	cfg := config.DefaultConfig().LLM
	cfg.Provider = provider
	return cfg
}

func TestNewProviderSet_Gemini(t *testing.T) {
	keys := &config.LoadedKeys{Gemini: "test-key"}

	set, err := NewProviderSet(context.Background(), testLLMConfig("gemini"), keys)
	if err != nil {
		t.Fatalf("NewProviderSet failed: %v", err)
	}

	if set.Chat.ModelName() != "gemini-2.0-flash" {
		t.Errorf("expected chat model gemini-2.0-flash, got %s", set.Chat.ModelName())
	}
	if set.Backup.ModelName() != "gemini-1.5-flash" {
		t.Errorf("expected backup model gemini-1.5-flash, got %s", set.Backup.ModelName())
	}
	if set.Rewriter.ModelName() != "gemini-2.0-flash-exp" {
		t.Errorf("expected rewriter model gemini-2.0-flash-exp, got %s",
			set.Rewriter.ModelName())
	}
	if set.Embedder.ModelName() != "text-embedding-004" {
		t.Errorf("expected embedding model text-embedding-004, got %s",
			set.Embedder.ModelName())
	}
}

func TestNewProviderSet_Gemini_NoKey(t *testing.T) {
	keys := &config.LoadedKeys{}

	_, err := NewProviderSet(context.Background(), testLLMConfig("gemini"), keys)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProviderSet_OpenAI(t *testing.T) {
	keys := &config.LoadedKeys{OpenAI: "test-key"}

	cfg := testLLMConfig("openai")
	cfg.Chat.Model = "gpt-4o"
	cfg.EmbeddingModel = "text-embedding-3-small"

	set, err := NewProviderSet(context.Background(), cfg, keys)
	if err != nil {
		t.Fatalf("NewProviderSet failed: %v", err)
	}
	if set.Chat.ModelName() != "gpt-4o" {
		t.Errorf("expected chat model gpt-4o, got %s", set.Chat.ModelName())
	}
	if set.Embedder.ModelName() != "text-embedding-3-small" {
		t.Errorf("expected embedding model text-embedding-3-small, got %s",
			set.Embedder.ModelName())
	}
}

func TestNewProviderSet_OpenAI_BaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"xin chào"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	cfg := testLLMConfig("openai")
	cfg.BaseURL = srv.URL
	cfg.TimeoutSeconds = 5

	set, err := NewProviderSet(context.Background(),
		cfg, &config.LoadedKeys{OpenAI: "test-key"})
	if err != nil {
		t.Fatalf("NewProviderSet failed: %v", err)
	}

	resp, err := set.Chat.Generate(context.Background(), llm.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text != "xin chào" {
		t.Errorf("expected response text from configured endpoint, got %q", resp.Text)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("expected request to /chat/completions, got %s", gotPath)
	}
}

func TestNewProviderSet_OpenAI_NoKey(t *testing.T) {
	keys := &config.LoadedKeys{}

	_, err := NewProviderSet(context.Background(), testLLMConfig("openai"), keys)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProviderSet_Unknown(t *testing.T) {
	keys := &config.LoadedKeys{}

	_, err := NewProviderSet(context.Background(), testLLMConfig("bedrock"), keys)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProviderSet_CaseInsensitive(t *testing.T) {
	keys := &config.LoadedKeys{OpenAI: "test-key"}

	set, err := NewProviderSet(context.Background(), testLLMConfig("OpenAI"), keys)
	if err != nil {
		t.Fatalf("NewProviderSet failed: %v", err)
	}
	if set == nil {
		t.Fatal("expected non-nil provider set")
	}
}
