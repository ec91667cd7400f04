//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tourchat/tourchat-server/internal/catalog"
	"github.com/tourchat/tourchat-server/internal/config"
	"github.com/tourchat/tourchat-server/internal/llm/factory"
	"github.com/tourchat/tourchat-server/internal/pipeline"
	"github.com/tourchat/tourchat-server/internal/server"
	"github.com/tourchat/tourchat-server/internal/session"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help message")
		showOpenAPI = flag.Bool("openapi", false, "Output OpenAPI specification and exit")
		configPath  = flag.String("config", "", "Path to configuration file")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `TourChat Server - conversational travel tour assistant

Usage:
    tourchat-server [options]

Options:
    -config string
        Path to configuration file. If not specified, searches:
        1. /etc/tourchat/tourchat-server.yaml
        2. tourchat-server.yaml (in binary directory)

    -openapi
        Output OpenAPI v3 specification as JSON and exit

    -version
        Show version information and exit

    -help
        Show this help message and exit
`)
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("TourChat Server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Build Time: %s\n", buildTime)
		fmt.Printf("  Git Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	if *showOpenAPI {
		spec := server.BuildOpenAPISpec()
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(spec); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode OpenAPI spec: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Run the server
	if err := run(*configPath, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("configuration loaded",
		"provider", cfg.LLM.Provider,
		"chat_model", cfg.LLM.Chat.Model)

	ctx := context.Background()

	// Connect to the tour catalog
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := catalog.NewStore(connectCtx, cfg.Catalog, catalog.WithLogger(logger))
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open tour catalog: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to close tour catalog", "error", err)
		}
	}()

	// Load API keys and build the LLM providers
	keyLoader := config.NewAPIKeyLoader(cfg.APIKeys)
	keys, err := keyLoader.LoadRequiredKeys(cfg.LLM.Provider)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}

	providers, err := factory.NewProviderSet(ctx, cfg.LLM, keys)
	if err != nil {
		return fmt.Errorf("failed to create LLM providers: %w", err)
	}

	// Wire the conversation pipeline
	sessions := session.NewStore()
	limiter := session.NewRateLimiter(
		time.Duration(cfg.Chat.MinIntervalSeconds * float64(time.Second)))

	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Sessions: sessions,
		Limiter:  limiter,
		Rewriter: pipeline.NewQueryRewriter(providers.Rewriter,
			cfg.Chat.RewriteWindow, logger),
		Retriever: pipeline.NewRetriever(providers.Embedder, store,
			cfg.Chat.TopK, logger),
		Filter: pipeline.NewContextFilter(
			pipeline.NewLocationExtractor(cfg.Chat.LocationWindow), logger),
		Answerer: pipeline.NewAnswerGenerator(providers.Chat,
			providers.Backup, logger),
		MaxTours: cfg.Chat.MaxTours,
		Logger:   logger,
	})

	// Create and start server
	srv := server.New(cfg, orchestrator, logger)

	// Handle graceful shutdown
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return err
	case sig := <-shutdownCh:
		logger.Info("received shutdown signal", "signal", sig)

		// Give 30 seconds for graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}
