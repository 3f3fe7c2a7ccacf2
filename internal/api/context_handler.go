package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/interfaces"
	"inkflow/backend/internal/model"
)

type ContextHandler struct {
	service interfaces.ContextService
}

func NewContextHandler(service interfaces.ContextService) *ContextHandler {
	return &ContextHandler{service: service}
}

// SaveContextRequest is the DTO for the context upsert endpoint.
type SaveContextRequest struct {
	Messages     []MessageDTO `json:"messages" validate:"dive"`
	DraftContent string       `json:"draft_content"`
}

// subjectOrAbort extracts the resolved subject or writes a 401. The Identity
// middleware always sets it; the check guards direct handler invocations.
func subjectOrAbort(w http.ResponseWriter, r *http.Request) (model.Subject, bool) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing subject"})
	}
	return subject, ok
}

// SaveContext godoc
// @Summary      Save conversation context
// @Description  Upserts the working state (messages + draft) for the conversation. First save creates, later saves replace in place.
// @Tags         contexts
// @Accept       json
// @Produce      json
// @Param        conversationID  path      string              true  "Conversation ID"
// @Param        request         body      SaveContextRequest  true  "Context payload"
// @Success      200             {object}  model.ConversationContext
// @Failure      400             {object}  ErrorResponse
// @Router       /conversations/{conversationID}/context [put]
func (h *ContextHandler) SaveContext(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	conversationID := chi.URLParam(r, "conversationID")

	var req SaveContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	cc, err := h.service.Save(r.Context(), subject, conversationID, toModelMessages(req.Messages), req.DraftContent)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cc)
}

// GetContext godoc
// @Summary      Load conversation context
// @Description  Returns the current working state for the conversation. 404 means the conversation is empty, not broken.
// @Tags         contexts
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.ConversationContext
// @Failure      404             {object}  ErrorResponse
// @Router       /conversations/{conversationID}/context [get]
func (h *ContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	conversationID := chi.URLParam(r, "conversationID")

	cc, err := h.service.Load(r.Context(), subject, conversationID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cc)
}
