package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/llm"
	"inkflow/backend/internal/model"
	"inkflow/backend/internal/promptcache"
)

type GenerationService struct {
	cache    promptcache.Store
	provider llm.Provider
	genModel string
}

func NewGenerationService(cache promptcache.Store, provider llm.Provider, genModel string) *GenerationService {
	return &GenerationService{cache: cache, provider: provider, genModel: genModel}
}

// GetOrGenerate consults the prompt cache before calling the generation
// pipeline. On a hit the stored content comes back with its hit count
// bumped. On a miss the pipeline runs and the result is inserted under the
// key; if a concurrent caller inserted first, the insert is discarded but
// the caller still receives the content its own generation produced.
func (s *GenerationService) GetOrGenerate(ctx context.Context, prompt string, params map[string]string) (string, bool, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", false, fmt.Errorf("%w: prompt is required", app_errors.ErrValidation)
	}

	// The model is part of the key: after a model change, old entries are
	// simply never hit again instead of serving the old model's output.
	key := promptcache.Key(s.genModel, prompt, params)

	entry, err := s.cache.Hit(ctx, key)
	if err != nil {
		return "", false, storeError(err)
	}
	if entry != nil {
		slog.Debug("Prompt cache hit", "key", key, "hit_count", entry.HitCount)
		return entry.Content, true, nil
	}

	resp, err := s.provider.Generate(ctx, &llm.GenerateRequest{
		Model:  s.genModel,
		Prompt: prompt,
		System: systemFromParams(params),
	})
	if err != nil {
		return "", false, fmt.Errorf("generation failed: %w", err)
	}

	now := time.Now().UTC()
	stored, err := s.cache.PutIfAbsent(ctx, &model.PromptCacheEntry{
		Key:       key,
		Content:   resp.Response,
		CreatedAt: now,
		LastHitAt: now,
	})
	if err != nil {
		// The caller's content is already in hand; a cache write failure only
		// costs a future regeneration.
		slog.Warn("Could not store generation result in prompt cache", "key", key, "error", err)
	} else if !stored {
		slog.Debug("Lost prompt cache insert race, keeping own content", "key", key)
	}

	return resp.Response, false, nil
}

// systemFromParams renders output-affecting parameters (tone, format, ...)
// into a deterministic system instruction.
func systemFromParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, params[name]))
	}
	return "Respect the following constraints. " + strings.Join(parts, "; ")
}
