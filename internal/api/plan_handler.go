package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service"
)

// PlanHandler handles daily-plan HTTP requests
type PlanHandler struct {
	plannerService service.PlannerService
	logger         *slog.Logger
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(plannerService service.PlannerService, logger *slog.Logger) *PlanHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PlanHandler")
	}

	return &PlanHandler{
		plannerService: plannerService,
		logger:         logger.With(slog.String("component", "plan_handler")),
	}
}

// GeneratePlan handles POST /plans/generate requests.
// It produces and stores a plan for the requested date, replacing any
// existing plan for that date.
func (h *PlanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	var req GeneratePlanRequest
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

	plan, err := h.plannerService.GeneratePlanForDate(r.Context(), userKey, req.Date)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("plan generated",
		slog.String("date", plan.Date),
		slog.Int("task_count", len(plan.Tasks)))
	shared.RespondWithJSON(w, r, http.StatusCreated, plan)
}

// StorePlan handles POST /plans requests.
// It stores a caller-supplied plan after checking that every task references
// an existing goal and topic. Storing a plan for a date that already has one
// replaces it.
func (h *PlanHandler) StorePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	var req StorePlanRequest
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

	plan, err := h.plannerService.StoreDailyPlan(
		r.Context(),
		userKey,
		req.Date,
		req.Reasoning,
		toPlannedTasks(req.Tasks),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("plan stored",
		slog.String("date", plan.Date),
		slog.Int("task_count", len(plan.Tasks)))
	shared.RespondWithJSON(w, r, http.StatusCreated, plan)
}

// GetPlan handles GET /plans/{date} requests.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	date, ok := parsePlanDate(w, r, log)
	if !ok {
		return
	}

	plan, err := h.plannerService.GetDailyPlan(r.Context(), userKey, date)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}

// ListPlans handles GET /plans requests.
// Plans are returned newest date first.
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userKey := shared.UserKeyFromContext(r.Context())

	plans, err := h.plannerService.ListDailyPlans(r.Context(), userKey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, plans)
}

// DeletePlan handles DELETE /plans/{date} requests.
// Deleting an absent plan is a no-op success.
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	date, ok := parsePlanDate(w, r, log)
	if !ok {
		return
	}

	if err := h.plannerService.DeleteDailyPlan(r.Context(), userKey, date); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("plan deleted", slog.String("date", date))
	w.WriteHeader(http.StatusNoContent)
}

// parsePlanDate extracts and validates the plan date from the URL path. On
// failure it writes the error response and returns ok=false.
func parsePlanDate(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	date := chi.URLParam(r, "date")
	if date == "" {
		log.Warn("plan date not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Plan date is required")
		return "", false
	}

	if err := domain.ValidatePlanDate(date); err != nil {
		log.Warn("invalid plan date format", slog.String("date", date))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid plan date format, expected YYYY-MM-DD")
		return "", false
	}

	return date, true
}
