package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/interfaces"
)

type GenerateHandler struct {
	service interfaces.GenerationService
}

func NewGenerateHandler(service interfaces.GenerationService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// GenerateRequest carries the prompt and the output-affecting parameters
// (tone, format, ...) that feed into the cache key.
type GenerateRequest struct {
	Prompt string            `json:"prompt" validate:"required"`
	Params map[string]string `json:"params"`
}

// GenerateResponse reports the content and whether it came from the cache.
type GenerateResponse struct {
	Content string `json:"content"`
	WasHit  bool   `json:"was_hit"`
}

// Generate godoc
// @Summary      Generate content
// @Description  Runs the generation pipeline behind the prompt cache: identical requests are served from the cache instead of re-invoking the model.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateRequest  true  "Generation request"
// @Success      200      {object}  GenerateResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /generate [post]
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := subjectOrAbort(w, r); !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	content, wasHit, err := h.service.GetOrGenerate(r.Context(), req.Prompt, req.Params)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, GenerateResponse{Content: content, WasHit: wasHit})
}
