package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/llm"
	mock_llm "inkflow/backend/internal/llm/mocks"
	"inkflow/backend/internal/model"
	"inkflow/backend/internal/promptcache"
	mock_cache "inkflow/backend/internal/promptcache/mocks"
	"inkflow/backend/internal/service"
)

func TestGenerationService_GetOrGenerate(t *testing.T) {
	ctx := context.Background()
	params := map[string]string{"tone": "formal", "format": "markdown"}
	key := promptcache.Key("llama3", "Write an outline", params)

	t.Run("Success - cache hit skips the provider", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "llama3")

		cache.On("Hit", ctx, key).Return(&model.PromptCacheEntry{
			Key:      key,
			Content:  "cached outline",
			HitCount: 3,
		}, nil).Once()

		content, wasHit, err := svc.GetOrGenerate(ctx, "Write an outline", params)
		require.NoError(t, err)
		assert.True(t, wasHit)
		assert.Equal(t, "cached outline", content)
		provider.AssertNotCalled(t, "Generate")
	})

	t.Run("Success - miss generates and stores", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "llama3")

		cache.On("Hit", ctx, key).Return(nil, nil).Once()
		provider.On("Generate", ctx, mock.MatchedBy(func(req *llm.GenerateRequest) bool {
			return req.Model == "llama3" && req.Prompt == "Write an outline" && req.System != ""
		})).Return(&llm.GenerateResponse{Response: "fresh outline"}, nil).Once()
		cache.On("PutIfAbsent", ctx, mock.MatchedBy(func(entry *model.PromptCacheEntry) bool {
			return entry.Key == key && entry.Content == "fresh outline"
		})).Return(true, nil).Once()

		content, wasHit, err := svc.GetOrGenerate(ctx, "Write an outline", params)
		require.NoError(t, err)
		assert.False(t, wasHit)
		assert.Equal(t, "fresh outline", content)
	})

	t.Run("Success - lost insert race keeps own content", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "llama3")

		cache.On("Hit", ctx, key).Return(nil, nil).Once()
		provider.On("Generate", ctx, mock.Anything).
			Return(&llm.GenerateResponse{Response: "my own outline"}, nil).Once()
		cache.On("PutIfAbsent", ctx, mock.Anything).Return(false, nil).Once()

		content, wasHit, err := svc.GetOrGenerate(ctx, "Write an outline", params)
		require.NoError(t, err)
		assert.False(t, wasHit)
		assert.Equal(t, "my own outline", content)
	})

	t.Run("Success - cache write failure does not fail the request", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "llama3")

		cache.On("Hit", ctx, key).Return(nil, nil).Once()
		provider.On("Generate", ctx, mock.Anything).
			Return(&llm.GenerateResponse{Response: "outline"}, nil).Once()
		cache.On("PutIfAbsent", ctx, mock.Anything).
			Return(false, errors.New("redis: connection refused")).Once()

		content, wasHit, err := svc.GetOrGenerate(ctx, "Write an outline", params)
		require.NoError(t, err)
		assert.False(t, wasHit)
		assert.Equal(t, "outline", content)
	})

	t.Run("Success - model is part of the cache key", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "mistral")

		// An entry cached under llama3 must not be served by a service
		// configured with a different model.
		mistralKey := promptcache.Key("mistral", "Write an outline", params)
		require.NotEqual(t, key, mistralKey)

		cache.On("Hit", ctx, mistralKey).Return(nil, nil).Once()
		provider.On("Generate", ctx, mock.MatchedBy(func(req *llm.GenerateRequest) bool {
			return req.Model == "mistral"
		})).Return(&llm.GenerateResponse{Response: "mistral outline"}, nil).Once()
		cache.On("PutIfAbsent", ctx, mock.MatchedBy(func(entry *model.PromptCacheEntry) bool {
			return entry.Key == mistralKey
		})).Return(true, nil).Once()

		content, wasHit, err := svc.GetOrGenerate(ctx, "Write an outline", params)
		require.NoError(t, err)
		assert.False(t, wasHit)
		assert.Equal(t, "mistral outline", content)
	})

	t.Run("Failure - blank prompt", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "llama3")

		_, _, err := svc.GetOrGenerate(ctx, "   ", nil)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - provider error propagates", func(t *testing.T) {
		cache := mock_cache.NewMockStore(t)
		provider := mock_llm.NewMockProvider(t)
		svc := service.NewGenerationService(cache, provider, "llama3")

		cache.On("Hit", ctx, mock.Anything).Return(nil, nil).Once()
		provider.On("Generate", ctx, mock.Anything).
			Return(nil, errors.New("model not loaded")).Once()

		_, _, err := svc.GetOrGenerate(ctx, "Write an outline", nil)
		assert.ErrorContains(t, err, "generation failed")
	})
}
