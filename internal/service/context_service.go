package service

import (
	"context"
	"fmt"
	"log/slog"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/model"
	"inkflow/backend/internal/repository"
)

type ContextService struct {
	repo repository.ContextRepository
}

func NewContextService(repo repository.ContextRepository) *ContextService {
	return &ContextService{repo: repo}
}

// Save upserts the working state for (subject, conversation). Creation and
// update are deliberately indistinguishable: both succeed the same way.
func (s *ContextService) Save(ctx context.Context, subject model.Subject, conversationID string, messages []model.Message, draftContent string) (*model.ConversationContext, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", app_errors.ErrValidation)
	}
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	cc, err := s.repo.SaveContext(ctx, subject.StorageID(), conversationID, messages, draftContent)
	if err != nil {
		return nil, storeError(err)
	}
	slog.Debug("Saved conversation context", "conversation_id", conversationID, "message_count", cc.MessageCount)
	return cc, nil
}

// Load is a pure read. A missing context surfaces as ErrNotFound; callers
// that treat the conversation as empty can check for it with errors.Is.
func (s *ContextService) Load(ctx context.Context, subject model.Subject, conversationID string) (*model.ConversationContext, error) {
	cc, err := s.repo.GetContext(ctx, subject.StorageID(), conversationID)
	if err != nil {
		return nil, storeError(err)
	}
	return cc, nil
}

// validateMessages enforces well-formedness: a role the engine understands,
// non-empty content and a real timestamp on every message.
func validateMessages(messages []model.Message) error {
	for i, m := range messages {
		switch m.Role {
		case "user", "assistant":
		default:
			return fmt.Errorf("%w: message %d has invalid role %q", app_errors.ErrValidation, i, m.Role)
		}
		if m.Content == "" {
			return fmt.Errorf("%w: message %d has empty content", app_errors.ErrValidation, i)
		}
		if m.Timestamp.IsZero() {
			return fmt.Errorf("%w: message %d has no timestamp", app_errors.ErrValidation, i)
		}
	}
	return nil
}
