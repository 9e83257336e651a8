package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/studyloop/studyloop-api/internal/config"
	"github.com/studyloop/studyloop-api/internal/domain/sched"
	"github.com/studyloop/studyloop-api/internal/generation"
	"github.com/studyloop/studyloop-api/internal/platform/gemini"
	"github.com/studyloop/studyloop-api/internal/platform/memstore"
	"github.com/studyloop/studyloop-api/internal/platform/postgres"
	"github.com/studyloop/studyloop-api/internal/service"
	"github.com/studyloop/studyloop-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	stateStore store.StateStore

	// Service interfaces
	schedService   sched.Service
	planGenerator  generation.PlanGenerator
	plannerService service.PlannerService
}

// newApplication creates a new application instance with all dependencies
// initialized. With no database URL configured the server runs on the
// in-memory store; with no Gemini API key configured plan generation uses
// the deterministic fallback planner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if cfg.Database.URL != "" {
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.stateStore = postgres.NewPostgresStateStore(db, logger)
	} else {
		logger.Warn("no database URL configured, using in-memory state store")
		app.stateStore = memstore.NewMemoryStateStore(logger)
	}

	app.schedService = sched.NewDefaultService()

	if cfg.LLM.GeminiAPIKey != "" {
		planGenerator, err := gemini.NewGeminiPlanGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize plan generator: %w", err)
		}
		app.planGenerator = planGenerator
		logger.Info("Gemini plan generator initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("no Gemini API key configured, plan generation uses the fallback planner")
	}

	plannerService, err := service.NewPlannerService(
		app.stateStore,
		app.schedService,
		app.planGenerator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner service: %w", err)
	}
	app.plannerService = plannerService

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
