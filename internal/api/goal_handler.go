// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service"
)

// GoalHandler handles goal- and topic-related HTTP requests
type GoalHandler struct {
	plannerService service.PlannerService
	logger         *slog.Logger
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(plannerService service.PlannerService, logger *slog.Logger) *GoalHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GoalHandler")
	}

	return &GoalHandler{
		plannerService: plannerService,
		logger:         logger.With(slog.String("component", "goal_handler")),
	}
}

// CreateGoal handles POST /goals requests.
// It creates a new goal, together with one unreviewed topic per listed name.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	var req CreateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	goal, err := h.plannerService.AddGoal(r.Context(), userKey, req.toGoalPayload())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("goal created",
		slog.String("goal_id", goal.ID.String()),
		slog.Int("topic_count", len(goal.Topics)))
	shared.RespondWithJSON(w, r, http.StatusCreated, goal)
}

// ListGoals handles GET /goals requests.
// It returns every goal with a memory-decay level attached to each topic.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userKey := shared.UserKeyFromContext(r.Context())

	goals, err := h.plannerService.GetGoalsWithDecay(r.Context(), userKey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// GetGoal handles GET /goals/{id} requests.
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	goalID, ok := parseGoalID(w, r, log)
	if !ok {
		return
	}

	goal, err := h.plannerService.GetGoal(r.Context(), userKey, goalID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// UpdateGoal handles PATCH /goals/{id} requests.
// Absent body fields are left unchanged; the goal's ID and creation
// timestamp are never updatable.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	goalID, ok := parseGoalID(w, r, log)
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("goal_id", goalID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", err.Error()),
			slog.String("goal_id", goalID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	goal, err := h.plannerService.UpdateGoal(r.Context(), userKey, goalID, req.toGoalUpdate())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("goal updated", slog.String("goal_id", goal.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /goals/{id} requests.
// Deleting a goal also removes its study sessions and strips its tasks from
// every stored daily plan.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	goalID, ok := parseGoalID(w, r, log)
	if !ok {
		return
	}

	if err := h.plannerService.DeleteGoal(r.Context(), userKey, goalID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("goal deleted", slog.String("goal_id", goalID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// AddTopic handles POST /goals/{id}/topics requests.
// The new topic starts unreviewed with zero mastery.
func (h *GoalHandler) AddTopic(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	goalID, ok := parseGoalID(w, r, log)
	if !ok {
		return
	}

	var req AddTopicRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("goal_id", goalID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", err.Error()),
			slog.String("goal_id", goalID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	topic, err := h.plannerService.AddTopic(r.Context(), userKey, goalID, service.TopicPayload{
		Name:  req.Name,
		Notes: req.Notes,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("topic added",
		slog.String("goal_id", goalID.String()),
		slog.String("topic_id", topic.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, topic)
}

// parseGoalID extracts and parses the goal ID from the URL path. On failure
// it writes the error response and returns ok=false.
func parseGoalID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	pathGoalID := chi.URLParam(r, "id")
	if pathGoalID == "" {
		log.Warn("goal ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Goal ID is required")
		return uuid.Nil, false
	}

	goalID, err := uuid.Parse(pathGoalID)
	if err != nil {
		log.Warn("invalid goal ID format", slog.String("goal_id", pathGoalID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid goal ID format")
		return uuid.Nil, false
	}

	return goalID, true
}
