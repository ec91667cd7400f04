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

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "tourchat-server.yaml"

	// SystemConfigPath is the system-wide configuration path.
	SystemConfigPath = "/etc/tourchat/" + ConfigFileName
)

// Load loads the configuration from the specified path, or searches
// default locations if path is empty.
//
// Search order:
//  1. Explicit path (if provided)
//  2. /etc/tourchat/tourchat-server.yaml
//  3. tourchat-server.yaml in the binary's directory
func Load(path string) (*Config, error) {
	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}

	return loadFromFile(configPath)
}

// findConfigFile finds the configuration file using the search order.
func findConfigFile(explicitPath string) (string, error) {
	// If explicit path provided, use it
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	// Search order for config file
	searchPaths := []string{
		SystemConfigPath,
		getBinaryDirConfigPath(),
	}

	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no configuration file found; searched: %v", searchPaths)
}

// getBinaryDirConfigPath returns the path to config file in the binary's
// directory.
func getBinaryDirConfigPath() string {
	executable, err := os.Executable()
	if err != nil {
		return ""
	}

	// Resolve symlinks to get the actual binary location
	executable, err = filepath.EvalSymlinks(executable)
	if err != nil {
		return ""
	}

	return filepath.Join(filepath.Dir(executable), ConfigFileName)
}

// loadFromFile loads and parses the configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in anything the file zeroed out
	applyDefaults(cfg)

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults restores required defaults for fields the file left unset.
// Unmarshaling on top of DefaultConfig covers most of this; the remaining
// cases are fields where zero is never a usable value.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Catalog.Collection == "" {
		cfg.Catalog.Collection = defaults.Catalog.Collection
	}
	if cfg.Catalog.VectorIndex == "" {
		cfg.Catalog.VectorIndex = defaults.Catalog.VectorIndex
	}
	if cfg.Catalog.EmbeddingPath == "" {
		cfg.Catalog.EmbeddingPath = defaults.Catalog.EmbeddingPath
	}
	if cfg.Catalog.NumCandidates == 0 {
		cfg.Catalog.NumCandidates = defaults.Catalog.NumCandidates
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaults.LLM.Provider
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = defaults.LLM.EmbeddingModel
	}
	applyModelDefaults(&cfg.LLM.Chat, defaults.LLM.Chat)
	applyModelDefaults(&cfg.LLM.Backup, defaults.LLM.Backup)
	applyModelDefaults(&cfg.LLM.Rewriter, defaults.LLM.Rewriter)

	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = defaults.Chat.TopK
	}
	if cfg.Chat.MaxTours == 0 {
		cfg.Chat.MaxTours = defaults.Chat.MaxTours
	}
	if cfg.Chat.RewriteWindow == 0 {
		cfg.Chat.RewriteWindow = defaults.Chat.RewriteWindow
	}
	if cfg.Chat.LocationWindow == 0 {
		cfg.Chat.LocationWindow = defaults.Chat.LocationWindow
	}
}

// applyModelDefaults fills in missing model settings. A zero temperature is
// left alone only when the model name is also defaulted, since 0 is a valid
// temperature for an explicitly configured model.
func applyModelDefaults(m *ModelConfig, def ModelConfig) {
	if m.Model == "" {
		*m = def
		return
	}
	if m.MaxTokens == 0 {
		m.MaxTokens = def.MaxTokens
	}
}
