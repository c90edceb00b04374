package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/blaisecz/sleep-bot/internal/api/validation"
	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/pkg/problem"
)

// ChatEngine processes one conversational turn.
type ChatEngine interface {
	Handle(ctx context.Context, req *domain.ChatRequest) *domain.ChatResponse
}

type ChatHandler struct {
	engine ChatEngine
}

func NewChatHandler(engine ChatEngine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// Handle handles POST /v1/chat
// @Summary Process one conversational turn
// @Description Feeds a chat message through the dialog engine and returns the localized reply. Unknown chat ids are registered and put through onboarding.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body domain.ChatRequest true "Chat turn"
// @Success 200 {object} domain.ChatResponse
// @Failure 400 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /v1/chat [post]
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	resp := h.engine.Handle(r.Context(), &req)
	writeJSON(w, http.StatusOK, resp)
}
