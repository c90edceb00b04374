package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/blaisecz/sleep-bot/internal/api/validation"
	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/service"
	"github.com/blaisecz/sleep-bot/pkg/problem"
)

type SleepHandler struct {
	users service.UserService
	sleep service.SleepService
}

func NewSleepHandler(users service.UserService, sleep service.SleepService) *SleepHandler {
	return &SleepHandler{users: users, sleep: sleep}
}

// resolveUser loads the path user or writes the error response.
func (h *SleepHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	chatID, ok := chatIDParam(r)
	if !ok {
		problem.BadRequest("Invalid chat id format").Write(w)
		return nil, false
	}
	user, err := h.users.GetByChatID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return nil, false
		}
		problem.InternalError("Failed to get user").Write(w)
		return nil, false
	}
	return user, true
}

// Start handles POST /v1/users/{chatId}/sleep
// @Summary Start a sleep session
// @Description Begins a session at the current time. When a session is already active, responds 409 listing the explicit resolutions for POST .../sleep/resolve.
// @Tags sleep
// @Produce json
// @Param chatId path int true "Chat id"
// @Success 201 {object} domain.SessionResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/sleep [post]
func (h *SleepHandler) Start(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	session, err := h.sleep.Start(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrActiveSessionExists) {
			problem.Conflict("A sleep session is already active").
				WithResolutions(service.ConflictResolutions).
				Write(w)
			return
		}
		problem.InternalError("Failed to start sleep session").Write(w)
		return
	}

	writeJSON(w, http.StatusCreated, session.ToResponse())
}

// Wake handles POST /v1/users/{chatId}/wake
// @Summary End the active sleep session
// @Tags sleep
// @Produce json
// @Param chatId path int true "Chat id"
// @Success 200 {object} domain.SessionResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/wake [post]
func (h *SleepHandler) Wake(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	session, err := h.sleep.End(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			problem.Conflict("No active sleep session to end").Write(w)
			return
		}
		problem.InternalError("Failed to end sleep session").Write(w)
		return
	}

	writeJSON(w, http.StatusOK, session.ToResponse())
}

// Cancel handles POST /v1/users/{chatId}/sleep/cancel
// @Summary Discard the active sleep session
// @Description Deletes the active session without recording it. A no-op when nothing is active.
// @Tags sleep
// @Param chatId path int true "Chat id"
// @Success 204 "Cancelled or nothing to cancel"
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/sleep/cancel [post]
func (h *SleepHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	if err := h.sleep.CancelActive(r.Context(), user); err != nil {
		problem.InternalError("Failed to cancel sleep session").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Resolve handles POST /v1/users/{chatId}/sleep/resolve
// @Summary Resolve a start conflict
// @Description Applies one of save_and_start, continue, cancel_and_start to the active session.
// @Tags sleep
// @Accept json
// @Produce json
// @Param chatId path int true "Chat id"
// @Param request body domain.ResolveConflictRequest true "Chosen resolution"
// @Success 200 {object} domain.ConflictResolutionResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/sleep/resolve [post]
func (h *SleepHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req domain.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	completed, started, err := h.sleep.ResolveConflict(r.Context(), user, service.ConflictResolution(req.Resolution))
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			problem.Conflict("No active sleep session to resolve").Write(w)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest(err.Error()).Write(w)
			return
		}
		problem.InternalError("Failed to resolve sleep conflict").Write(w)
		return
	}

	resp := domain.ConflictResolutionResponse{}
	if completed != nil {
		body := completed.ToResponse()
		resp.Completed = &body
	}
	if started != nil {
		body := started.ToResponse()
		resp.Started = &body
	}
	writeJSON(w, http.StatusOK, resp)
}

// Quality handles POST /v1/users/{chatId}/sessions/last/quality
// @Summary Rate the last completed session
// @Description Validates the update against the time-since-wake policy first. When confirmation is required and confirmed is false, nothing is written and the response carries the decision context.
// @Tags sessions
// @Accept json
// @Produce json
// @Param chatId path int true "Chat id"
// @Param request body domain.QualityRequest true "Rating"
// @Success 200 {object} domain.UpdateOutcomeResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/sessions/last/quality [post]
func (h *SleepHandler) Quality(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req domain.QualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	session, err := h.sleep.GetLastCompleted(r.Context(), user)
	if err != nil {
		problem.InternalError("Failed to load last session").Write(w)
		return
	}
	if session == nil {
		problem.NotFound("No completed sleep session to rate").Write(w)
		return
	}

	var existing *string
	if session.QualityRating != nil {
		v := strconv.FormatFloat(*session.QualityRating, 'f', -1, 64)
		existing = &v
	}

	decision, hoursSinceWake := h.sleep.ValidateUpdate(session, service.FieldQuality, existing != nil)
	if decision != service.DecisionAllow && !req.Confirmed {
		writeJSON(w, http.StatusOK, pendingOutcome(decision, hoursSinceWake, existing))
		return
	}

	updated, err := h.sleep.AddQualityRating(r.Context(), session, req.Rating)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest(err.Error()).Write(w)
			return
		}
		problem.InternalError("Failed to save quality rating").Write(w)
		return
	}

	writeJSON(w, http.StatusOK, appliedOutcome(decision, hoursSinceWake, updated))
}

// Note handles POST /v1/users/{chatId}/sessions/last/note
// @Summary Attach a note to the last completed session
// @Description Same confirmation contract as the quality endpoint.
// @Tags sessions
// @Accept json
// @Produce json
// @Param chatId path int true "Chat id"
// @Param request body domain.NoteRequest true "Note text"
// @Success 200 {object} domain.UpdateOutcomeResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/sessions/last/note [post]
func (h *SleepHandler) Note(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req domain.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	session, err := h.sleep.GetLastCompleted(r.Context(), user)
	if err != nil {
		problem.InternalError("Failed to load last session").Write(w)
		return
	}
	if session == nil {
		problem.NotFound("No completed sleep session to annotate").Write(w)
		return
	}

	existing := session.Note
	decision, hoursSinceWake := h.sleep.ValidateUpdate(session, service.FieldNote, existing != nil)
	if decision != service.DecisionAllow && !req.Confirmed {
		writeJSON(w, http.StatusOK, pendingOutcome(decision, hoursSinceWake, existing))
		return
	}

	updated, err := h.sleep.AddNote(r.Context(), session, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest(err.Error()).Write(w)
			return
		}
		problem.InternalError("Failed to save note").Write(w)
		return
	}

	writeJSON(w, http.StatusOK, appliedOutcome(decision, hoursSinceWake, updated))
}

func pendingOutcome(decision service.UpdateDecision, hoursSinceWake float64, existing *string) domain.UpdateOutcomeResponse {
	resp := domain.UpdateOutcomeResponse{
		Applied:        false,
		Decision:       string(decision),
		HoursSinceWake: hoursSinceWake,
		ExistingValue:  existing,
	}
	if decision == service.DecisionShowWarning {
		resp.TimeAgo = service.FormatTimeAgo(hoursSinceWake)
	}
	return resp
}

func appliedOutcome(decision service.UpdateDecision, hoursSinceWake float64, session *domain.SleepSession) domain.UpdateOutcomeResponse {
	body := session.ToResponse()
	return domain.UpdateOutcomeResponse{
		Applied:        true,
		Decision:       string(decision),
		HoursSinceWake: hoursSinceWake,
		Session:        &body,
	}
}
