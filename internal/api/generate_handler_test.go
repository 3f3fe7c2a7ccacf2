package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inkflow/backend/internal/api"
	mock_svc "inkflow/backend/internal/interfaces/mocks"
	"inkflow/backend/internal/model"
)

func TestGenerateHandler_Generate(t *testing.T) {
	guest := model.GuestSubject("guest-1")

	t.Run("Success - cache hit", func(t *testing.T) {
		svc := mock_svc.NewMockGenerationService(t)
		handler := api.NewGenerateHandler(svc)

		svc.On("GetOrGenerate", mock.Anything, "Write an outline", map[string]string{"tone": "formal"}).
			Return("cached outline", true, nil).Once()

		body := `{"prompt":"Write an outline","params":{"tone":"formal"}}`
		req := newRequest(http.MethodPost, "/generate", body, guest, nil)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"content":"cached outline","was_hit":true}`, rr.Body.String())
	})

	t.Run("Failure - missing prompt", func(t *testing.T) {
		svc := mock_svc.NewMockGenerationService(t)
		handler := api.NewGenerateHandler(svc)

		req := newRequest(http.MethodPost, "/generate", `{"params":{}}`, guest, nil)
		rr := httptest.NewRecorder()

		handler.Generate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
