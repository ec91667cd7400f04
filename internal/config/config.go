//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration loading and validation for the
// TourChat Server.
package config

// Config is the root configuration structure for the server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	APIKeys APIKeysConfig `yaml:"api_keys"`
	Catalog CatalogConfig `yaml:"catalog"`
	LLM     LLMConfig     `yaml:"llm"`
	Chat    ChatConfig    `yaml:"chat"`
}

// APIKeysConfig contains paths to files containing API keys for LLM
// providers. If not specified, keys are loaded from environment variables
// or default file locations (~/.gemini-api-key, ~/.openai-api-key).
type APIKeysConfig struct {
	Gemini string `yaml:"gemini"` // Path to file containing Gemini API key
	OpenAI string `yaml:"openai"` // Path to file containing OpenAI API key
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	ListenAddress string     `yaml:"listen_address"`
	Port          int        `yaml:"port"`
	TLS           TLSConfig  `yaml:"tls"`
	CORS          CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) settings.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"` // Origins to allow, or ["*"] for all
}

// TLSConfig contains TLS/HTTPS settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// CatalogConfig contains MongoDB Atlas connection and vector search
// settings for the tour catalog.
type CatalogConfig struct {
	URI           string `yaml:"uri"`
	Database      string `yaml:"database"`
	Collection    string `yaml:"collection"`
	VectorIndex   string `yaml:"vector_index"`
	EmbeddingPath string `yaml:"embedding_path"`
	NumCandidates int    `yaml:"num_candidates"`
}

// ModelConfig contains settings for a single generation model.
type ModelConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LLMConfig contains settings for the LLM provider and its models.
// Chat is the primary answer model, Backup takes over when Chat fails,
// and Rewriter runs the low-temperature query rewriting step. BaseURL
// and TimeoutSeconds apply to the OpenAI provider only, for proxies
// and API-compatible endpoints.
type LLMConfig struct {
	Provider       string      `yaml:"provider"` // "gemini" or "openai"
	BaseURL        string      `yaml:"base_url"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	Chat           ModelConfig `yaml:"chat"`
	Backup         ModelConfig `yaml:"backup"`
	Rewriter       ModelConfig `yaml:"rewriter"`
	EmbeddingModel string      `yaml:"embedding_model"`
}

// ChatConfig contains tunables for the conversation pipeline.
type ChatConfig struct {
	MinIntervalSeconds float64 `yaml:"min_interval_seconds"` // Per-session rate limit
	TopK               int     `yaml:"top_k"`                // Vector search result count
	MaxTours           int     `yaml:"max_tours"`            // Tours kept after filtering
	RewriteWindow      int     `yaml:"rewrite_window"`       // History turns for rewriting
	LocationWindow     int     `yaml:"location_window"`      // User turns scanned for locations
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress: "0.0.0.0",
			Port:          8080,
			TLS: TLSConfig{
				Enabled: false,
			},
		},
		Catalog: CatalogConfig{
			Collection:    "tours",
			VectorIndex:   "tour_search",
			EmbeddingPath: "embedding",
			NumCandidates: 10000,
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Chat: ModelConfig{
				Model:       "gemini-2.0-flash",
				Temperature: 0.6,
				MaxTokens:   1536,
			},
			Backup: ModelConfig{
				Model:       "gemini-1.5-flash",
				Temperature: 0.6,
				MaxTokens:   1024,
			},
			Rewriter: ModelConfig{
				Model:       "gemini-2.0-flash-exp",
				Temperature: 0.2,
				MaxTokens:   200,
			},
			EmbeddingModel: "text-embedding-004",
		},
		Chat: ChatConfig{
			MinIntervalSeconds: 3,
			TopK:               10,
			MaxTours:           5,
			RewriteWindow:      6,
			LocationWindow:     4,
		},
	}
}
