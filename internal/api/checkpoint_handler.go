package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/interfaces"
)

type CheckpointHandler struct {
	service interfaces.CheckpointService
}

func NewCheckpointHandler(service interfaces.CheckpointService) *CheckpointHandler {
	return &CheckpointHandler{service: service}
}

// CreateCheckpointRequest is the DTO for checkpoint creation. Content is
// optional; when empty the checkpoint captures the context's current draft.
type CreateCheckpointRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120" example:"First full draft"`
	Description string `json:"description" validate:"max=500"`
	Content     string `json:"content"`
}

// RestoreResponse returns what the restored version contained.
type RestoreResponse struct {
	Content       string `json:"content"`
	VersionNumber int64  `json:"version_number"`
}

// CreateCheckpoint godoc
// @Summary      Create a checkpoint
// @Description  Snapshots the conversation's current context as a new named version and makes it the active one.
// @Tags         checkpoints
// @Accept       json
// @Produce      json
// @Param        conversationID  path      string                   true  "Conversation ID"
// @Param        request         body      CreateCheckpointRequest  true  "Checkpoint metadata"
// @Success      201             {object}  model.Checkpoint
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /conversations/{conversationID}/checkpoints [post]
func (h *CheckpointHandler) CreateCheckpoint(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	conversationID := chi.URLParam(r, "conversationID")

	var req CreateCheckpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	cp, err := h.service.Create(r.Context(), subject, conversationID, req.Title, req.Description, req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, cp)
}

// ListCheckpoints godoc
// @Summary      List checkpoints
// @Description  Returns the conversation's checkpoints, most recent version first. An empty list is a valid result.
// @Tags         checkpoints
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {array}   model.Checkpoint
// @Router       /conversations/{conversationID}/checkpoints [get]
func (h *CheckpointHandler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	conversationID := chi.URLParam(r, "conversationID")

	checkpoints, err := h.service.List(r.Context(), subject, conversationID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, checkpoints)
}

// GetCheckpoint godoc
// @Summary      Get a checkpoint
// @Description  Ownership-scoped lookup; a checkpoint owned by another subject reports 404.
// @Tags         checkpoints
// @Produce      json
// @Param        checkpointID  path      string  true  "Checkpoint ID"
// @Success      200           {object}  model.Checkpoint
// @Failure      404           {object}  ErrorResponse
// @Router       /checkpoints/{checkpointID} [get]
func (h *CheckpointHandler) GetCheckpoint(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	checkpointID := chi.URLParam(r, "checkpointID")

	cp, err := h.service.Get(r.Context(), subject, checkpointID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cp)
}

// DeleteCheckpoint godoc
// @Summary      Delete a checkpoint
// @Description  Deletes a non-active checkpoint. Deleting the active one requires replacement_id and fails with 409 otherwise.
// @Tags         checkpoints
// @Produce      json
// @Param        checkpointID    path      string  true   "Checkpoint ID"
// @Param        replacement_id  query     string  false  "Sibling checkpoint to activate in the same transaction"
// @Success      200             {object}  StatusResponse
// @Failure      404             {object}  ErrorResponse
// @Failure      409             {object}  ErrorResponse
// @Router       /checkpoints/{checkpointID} [delete]
func (h *CheckpointHandler) DeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	checkpointID := chi.URLParam(r, "checkpointID")
	replacementID := r.URL.Query().Get("replacement_id")

	if err := h.service.Delete(r.Context(), subject, checkpointID, replacementID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// RestoreCheckpoint godoc
// @Summary      Restore a checkpoint
// @Description  Makes the checkpoint the sole active version and overwrites the conversation context from its snapshot. Edits since the checkpoint are discarded.
// @Tags         checkpoints
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Param        checkpointID    path      string  true  "Checkpoint ID"
// @Success      200             {object}  RestoreResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /conversations/{conversationID}/checkpoints/{checkpointID}/restore [post]
func (h *CheckpointHandler) RestoreCheckpoint(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	conversationID := chi.URLParam(r, "conversationID")
	checkpointID := chi.URLParam(r, "checkpointID")

	cp, err := h.service.Restore(r.Context(), subject, conversationID, checkpointID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, RestoreResponse{Content: cp.Content, VersionNumber: cp.VersionNumber})
}
