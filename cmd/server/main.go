// Package main implements the entry point for the StudyLoop API server,
// which manages users' study goals and topics, applies spaced-repetition
// scheduling to their review queue, and generates daily study plans with
// optional LLM assistance.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/studyloop/studyloop-api/internal/config"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
// Returns the loaded config, the root logger, and any initialization error.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}
	if cfg.LLM.GeminiAPIKey != "" {
		slog.Debug("LLM configuration", "api_key_present", true, "model", cfg.LLM.ModelName)
	}

	return cfg, appLogger, nil
}
