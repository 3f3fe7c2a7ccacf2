package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/interfaces"
	"inkflow/backend/internal/model"
)

type MigrationHandler struct {
	service interfaces.MigrationService
}

func NewMigrationHandler(service interfaces.MigrationService) *MigrationHandler {
	return &MigrationHandler{service: service}
}

// MigrateRequest names the guest identity whose state should be re-owned by
// the authenticated caller.
type MigrateRequest struct {
	GuestID string `json:"guest_id" validate:"required"`
}

// Migrate godoc
// @Summary      Migrate guest state
// @Description  Re-owns all of the guest's conversations and checkpoints under the authenticated user, archiving the originals. Safe to retry; a repeat returns zero counts.
// @Tags         migrations
// @Accept       json
// @Produce      json
// @Param        request  body      MigrateRequest  true  "Guest identity"
// @Success      200      {object}  model.MigrationSummary
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Router       /migrations [post]
func (h *MigrationHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrAbort(w, r)
	if !ok {
		return
	}
	// Only an authenticated user can take ownership of guest state.
	if !subject.IsUser() {
		respondWithError(w, fmt.Errorf("%w: migration requires an authenticated user", app_errors.ErrPermission))
		return
	}

	var req MigrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	summary, err := h.service.Migrate(r.Context(), model.GuestSubject(req.GuestID), subject)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
