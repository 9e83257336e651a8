package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studyloop/studyloop-api/internal/api"
	apiMiddleware "github.com/studyloop/studyloop-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Every /api route is scoped to the caller's user key.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	goalHandler := api.NewGoalHandler(app.plannerService, app.logger)
	sessionHandler := api.NewSessionHandler(app.plannerService, app.logger)
	planHandler := api.NewPlanHandler(app.plannerService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.UserKeyMiddleware)

		// Goal and topic endpoints
		r.Post("/goals", goalHandler.CreateGoal)
		r.Get("/goals", goalHandler.ListGoals)
		r.Get("/goals/{id}", goalHandler.GetGoal)
		r.Patch("/goals/{id}", goalHandler.UpdateGoal)
		r.Delete("/goals/{id}", goalHandler.DeleteGoal)
		r.Post("/goals/{id}/topics", goalHandler.AddTopic)

		// Study session and review endpoints
		r.Post("/sessions", sessionHandler.RecordSession)
		r.Get("/review", sessionHandler.GetReviewQueue)
		r.Get("/state", sessionHandler.GetState)

		// Daily plan endpoints
		r.Post("/plans/generate", planHandler.GeneratePlan)
		r.Post("/plans", planHandler.StorePlan)
		r.Get("/plans", planHandler.ListPlans)
		r.Get("/plans/{date}", planHandler.GetPlan)
		r.Delete("/plans/{date}", planHandler.DeletePlan)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
