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

// Environment variable names for API keys.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Default API key file paths (relative to home directory).
const (
	DefaultGeminiKeyFile = ".gemini-api-key"
	DefaultOpenAIKeyFile = ".openai-api-key"
)

// LoadedKeys holds all loaded API keys.
type LoadedKeys struct {
	Gemini string
	OpenAI string
}

// APIKeyLoader handles loading API keys from configured paths, environment
// variables, or default file locations.
type APIKeyLoader struct {
	config APIKeysConfig
}

// NewAPIKeyLoader creates a new API key loader with the given configuration.
func NewAPIKeyLoader(cfg APIKeysConfig) *APIKeyLoader {
	return &APIKeyLoader{config: cfg}
}

// LoadGeminiKey loads the Gemini API key.
func (l *APIKeyLoader) LoadGeminiKey() (string, error) {
	return l.loadKey(
		l.config.Gemini,
		EnvGeminiAPIKey,
		DefaultGeminiKeyFile,
		"Gemini",
	)
}

// LoadOpenAIKey loads the OpenAI API key.
func (l *APIKeyLoader) LoadOpenAIKey() (string, error) {
	return l.loadKey(
		l.config.OpenAI,
		EnvOpenAIAPIKey,
		DefaultOpenAIKeyFile,
		"OpenAI",
	)
}

// LoadRequiredKeys loads only the API key required by the configured
// provider.
func (l *APIKeyLoader) LoadRequiredKeys(provider string) (*LoadedKeys, error) {
	keys := &LoadedKeys{}

	switch strings.ToLower(provider) {
	case "gemini":
		key, err := l.LoadGeminiKey()
		if err != nil {
			return nil, err
		}
		keys.Gemini = key

	case "openai":
		key, err := l.LoadOpenAIKey()
		if err != nil {
			return nil, err
		}
		keys.OpenAI = key

	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	return keys, nil
}

// loadKey loads an API key with the following priority:
// 1. Configured file path (if specified in config)
// 2. Environment variable
// 3. Default file location (~/.provider-api-key)
func (l *APIKeyLoader) loadKey(
	configPath, envVar, defaultFile, providerName string,
) (string, error) {
	// Priority 1: Configured file path
	if configPath != "" {
		path := expandPath(configPath)
		return readKeyFile(path, providerName)
	}

	// Priority 2: Environment variable
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	// Priority 3: Default file location
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(homeDir, defaultFile)

	// Check if default file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf(
			"%s API key not found: set %s environment variable or create %s",
			providerName, envVar, path)
	}

	return readKeyFile(path, providerName)
}

// readKeyFile reads an API key from a file.
func readKeyFile(path, providerName string) (string, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%s API key file not found: %s", providerName, path)
	}

	// Read the key
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s API key: %w", providerName, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s API key file is empty: %s", providerName, path)
	}

	return key, nil
}
