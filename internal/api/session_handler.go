package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service"
)

// SessionHandler handles study-session and review-queue HTTP requests
type SessionHandler struct {
	plannerService service.PlannerService
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(plannerService service.PlannerService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		plannerService: plannerService,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// RecordSession handles POST /sessions requests.
// Recording a session updates the topic's review history and mastery level,
// and retires any matching planned task for the session's calendar day.
func (h *SessionHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userKey := shared.UserKeyFromContext(r.Context())

	var req RecordSessionRequest
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

	session, err := h.plannerService.RecordSession(r.Context(), userKey, service.SessionPayload{
		TopicID:         uuid.MustParse(req.TopicID),
		GoalID:          uuid.MustParse(req.GoalID),
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("topic_id", session.TopicID.String()),
		slog.Int("duration_minutes", session.DurationMinutes))
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// GetReviewQueue handles GET /review requests.
// It returns the topics of active goals that are due for review, most
// urgent first.
func (h *SessionHandler) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	userKey := shared.UserKeyFromContext(r.Context())

	topics, err := h.plannerService.GetTopicsNeedingReview(r.Context(), userKey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topics)
}

// GetState handles GET /state requests.
// It returns the caller's full study state.
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userKey := shared.UserKeyFromContext(r.Context())

	state, err := h.plannerService.GetState(r.Context(), userKey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}
