package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inkflow/backend/internal/api"
	app_errors "inkflow/backend/internal/errors"
	mock_svc "inkflow/backend/internal/interfaces/mocks"
	"inkflow/backend/internal/model"
)

// newRequest builds a request carrying a resolved subject and chi URL params,
// the way a request looks after the router and Identity middleware ran.
func newRequest(method, target string, body string, subject model.Subject, params map[string]string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := api.ContextWithSubject(req.Context(), subject)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func TestContextHandler_SaveContext(t *testing.T) {
	guest := model.GuestSubject("guest-1")

	t.Run("Success", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		svc.On("Save", mock.Anything, guest, "conv-1", mock.Anything, "my draft").
			Return(&model.ConversationContext{
				SubjectID:      "guest-1",
				ConversationID: "conv-1",
				MessageCount:   1,
				DraftContent:   "my draft",
			}, nil).Once()

		body := `{"messages":[{"role":"user","content":"hi","timestamp":"2026-01-01T00:00:00Z"}],"draft_content":"my draft"}`
		req := newRequest(http.MethodPut, "/conversations/conv-1/context", body, guest, map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()

		handler.SaveContext(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"conversation_id":"conv-1"`)
	})

	t.Run("Failure - malformed body", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		req := newRequest(http.MethodPut, "/conversations/conv-1/context", `{broken`, guest, map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()

		handler.SaveContext(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - invalid message role", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		body := `{"messages":[{"role":"system","content":"hi","timestamp":"2026-01-01T00:00:00Z"}]}`
		req := newRequest(http.MethodPut, "/conversations/conv-1/context", body, guest, map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()

		handler.SaveContext(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "must be one of [user assistant]")
	})

	t.Run("Failure - no subject on context", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		req := httptest.NewRequest(http.MethodPut, "/conversations/conv-1/context", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()

		handler.SaveContext(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestContextHandler_GetContext(t *testing.T) {
	user := model.UserSubject("user-1")

	t.Run("Success", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		svc.On("Load", mock.Anything, user, "conv-1").
			Return(&model.ConversationContext{SubjectID: "user-1", ConversationID: "conv-1"}, nil).Once()

		req := newRequest(http.MethodGet, "/conversations/conv-1/context", "", user, map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()

		handler.GetContext(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - empty conversation reports 404", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		svc.On("Load", mock.Anything, user, "conv-9").
			Return(nil, app_errors.ErrNotFound).Once()

		req := newRequest(http.MethodGet, "/conversations/conv-9/context", "", user, map[string]string{"conversationID": "conv-9"})
		rr := httptest.NewRecorder()

		handler.GetContext(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - transient store error reports 503", func(t *testing.T) {
		svc := mock_svc.NewMockContextService(t)
		handler := api.NewContextHandler(svc)

		svc.On("Load", mock.Anything, user, "conv-1").
			Return(nil, app_errors.ErrTransient).Once()

		req := newRequest(http.MethodGet, "/conversations/conv-1/context", "", user, map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()

		handler.GetContext(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
