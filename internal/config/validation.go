//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns all validation
// errors found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateCatalog()...)
	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateChat()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateServer validates server configuration.
func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: "must be between 1 and 65535",
		})
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			errs = append(errs, ValidationError{
				Field:   "server.tls.cert_file",
				Message: "required when TLS is enabled",
			})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.CertFile)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.tls.cert_file",
				Message: fmt.Sprintf("file not found: %s", c.Server.TLS.CertFile),
			})
		}

		if c.Server.TLS.KeyFile == "" {
			errs = append(errs, ValidationError{
				Field:   "server.tls.key_file",
				Message: "required when TLS is enabled",
			})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.KeyFile)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.tls.key_file",
				Message: fmt.Sprintf("file not found: %s", c.Server.TLS.KeyFile),
			})
		}
	}

	return errs
}

// validateCatalog validates the tour catalog configuration.
func (c *Config) validateCatalog() ValidationErrors {
	var errs ValidationErrors

	if c.Catalog.URI == "" {
		errs = append(errs, ValidationError{
			Field:   "catalog.uri",
			Message: "required",
		})
	}

	if c.Catalog.Database == "" {
		errs = append(errs, ValidationError{
			Field:   "catalog.database",
			Message: "required",
		})
	}

	if c.Catalog.NumCandidates < 1 {
		errs = append(errs, ValidationError{
			Field:   "catalog.num_candidates",
			Message: "must be positive",
		})
	}

	return errs
}

// validateLLM validates the LLM provider configuration.
func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors

	provider := strings.ToLower(c.LLM.Provider)
	if provider != "gemini" && provider != "openai" {
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: "must be one of: gemini, openai",
		})
	}

	if c.LLM.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "llm.timeout_seconds",
			Message: "must be non-negative",
		})
	}

	errs = append(errs, validateModel("llm.chat", c.LLM.Chat)...)
	errs = append(errs, validateModel("llm.backup", c.LLM.Backup)...)
	errs = append(errs, validateModel("llm.rewriter", c.LLM.Rewriter)...)

	if c.LLM.EmbeddingModel == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.embedding_model",
			Message: "required",
		})
	}

	return errs
}

// validateModel validates a single model configuration.
func validateModel(prefix string, m ModelConfig) ValidationErrors {
	var errs ValidationErrors

	if m.Model == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + ".model",
			Message: "required",
		})
	}

	if m.Temperature < 0 || m.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   prefix + ".temperature",
			Message: "must be between 0 and 2",
		})
	}

	if m.MaxTokens < 1 {
		errs = append(errs, ValidationError{
			Field:   prefix + ".max_tokens",
			Message: "must be positive",
		})
	}

	return errs
}

// validateChat validates the conversation pipeline configuration.
func (c *Config) validateChat() ValidationErrors {
	var errs ValidationErrors

	if c.Chat.MinIntervalSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.min_interval_seconds",
			Message: "must be non-negative",
		})
	}

	if c.Chat.TopK < 1 {
		errs = append(errs, ValidationError{
			Field:   "chat.top_k",
			Message: "must be positive",
		})
	}

	if c.Chat.MaxTours < 1 {
		errs = append(errs, ValidationError{
			Field:   "chat.max_tours",
			Message: "must be positive",
		})
	}

	if c.Chat.RewriteWindow < 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.rewrite_window",
			Message: "must be non-negative",
		})
	}

	if c.Chat.LocationWindow < 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.location_window",
			Message: "must be non-negative",
		})
	}

	return errs
}
