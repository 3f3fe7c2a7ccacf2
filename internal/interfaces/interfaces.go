package interfaces

import (
	"context"

	"inkflow/backend/internal/model"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows for
// decoupling (e.g., API layer from Service layer) and easier testing via mocking.

// ContextService defines the contract for the mutable per-conversation state.
type ContextService interface {
	Save(ctx context.Context, subject model.Subject, conversationID string, messages []model.Message, draftContent string) (*model.ConversationContext, error)
	Load(ctx context.Context, subject model.Subject, conversationID string) (*model.ConversationContext, error)
}

// CheckpointService defines the contract for the versioned snapshot history
// and the restore transition.
type CheckpointService interface {
	Create(ctx context.Context, subject model.Subject, conversationID, title, description, content string) (*model.Checkpoint, error)
	List(ctx context.Context, subject model.Subject, conversationID string) ([]*model.Checkpoint, error)
	Get(ctx context.Context, subject model.Subject, checkpointID string) (*model.Checkpoint, error)
	Delete(ctx context.Context, subject model.Subject, checkpointID, replacementID string) error
	Restore(ctx context.Context, subject model.Subject, conversationID, checkpointID string) (*model.Checkpoint, error)
}

// MigrationService defines the contract for guest-to-user ownership transfer.
type MigrationService interface {
	Migrate(ctx context.Context, guest, user model.Subject) (*model.MigrationSummary, error)
}

// GenerationService defines the contract for cache-fronted content generation.
type GenerationService interface {
	GetOrGenerate(ctx context.Context, prompt string, params map[string]string) (content string, wasHit bool, err error)
}
