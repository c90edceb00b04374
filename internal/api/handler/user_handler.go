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
	"github.com/go-chi/chi/v5"
)

// @title Sleep Bot API
// @version 1.0
// @description Conversational sleep tracking: sessions, quality ratings, statistics and export
// @BasePath /

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// chatIDParam parses the {chatId} URL parameter.
func chatIDParam(r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatId"), 10, 64)
	return chatID, err == nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Register handles POST /v1/users
// @Summary Register a user
// @Description Get or create the user for a chat id. Registration is idempotent: repeat calls return the existing user.
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "User registration request"
// @Success 200 {object} domain.UserResponse "User already existed"
// @Success 201 {object} domain.UserResponse "User created"
// @Failure 400 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	user, created, err := h.service.GetOrCreate(r.Context(), &req)
	if err != nil {
		problem.InternalError("Failed to register user").Write(w)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, user.ToResponse())
}

// GetByChatID handles GET /v1/users/{chatId}
// @Summary Get user by chat id
// @Tags users
// @Produce json
// @Param chatId path int true "Chat id"
// @Success 200 {object} domain.UserResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId} [get]
func (h *UserHandler) GetByChatID(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		problem.BadRequest("Invalid chat id format").Write(w)
		return
	}

	user, err := h.service.GetByChatID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to get user").Write(w)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// UpdatePreferences handles PUT /v1/users/{chatId}/preferences
// @Summary Update language and timezone preferences
// @Tags users
// @Accept json
// @Produce json
// @Param chatId path int true "Chat id"
// @Param request body domain.UpdatePreferencesRequest true "Preference changes"
// @Success 200 {object} domain.UserResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/preferences [put]
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		problem.BadRequest("Invalid chat id format").Write(w)
		return
	}

	var req domain.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	user, err := h.service.GetByChatID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to get user").Write(w)
		return
	}

	if req.LanguageCode != nil {
		if user, err = h.service.UpdateLanguage(r.Context(), user, *req.LanguageCode); err != nil {
			h.writeUpdateError(w, err)
			return
		}
	}
	if req.Timezone != nil {
		if user, err = h.service.UpdateTimezone(r.Context(), user, *req.Timezone); err != nil {
			h.writeUpdateError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// UpdateGoals handles PUT /v1/users/{chatId}/goals
// @Summary Set or update sleep goals
// @Description Stores target bedtime, wake time and target sleep hours. Completes onboarding when the user is not onboarded yet.
// @Tags users
// @Accept json
// @Produce json
// @Param chatId path int true "Chat id"
// @Param request body domain.SleepGoalsRequest true "Sleep goals"
// @Success 200 {object} domain.UserResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /v1/users/{chatId}/goals [put]
func (h *UserHandler) UpdateGoals(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(r)
	if !ok {
		problem.BadRequest("Invalid chat id format").Write(w)
		return
	}

	var req domain.SleepGoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	user, err := h.service.GetByChatID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to get user").Write(w)
		return
	}

	if user.IsOnboarded {
		user, err = h.service.UpdateSleepGoals(r.Context(), user, &req)
	} else {
		user, err = h.service.CompleteOnboarding(r.Context(), user, &req)
	}
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

func (h *UserHandler) writeUpdateError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		problem.BadRequest(err.Error()).Write(w)
		return
	}
	problem.InternalError("Failed to update user").Write(w)
}
