package repository

import (
	"context"

	"inkflow/backend/internal/model"
)

// CollisionPolicy decides what happens when a migrating guest conversation id
// already exists under the target user.
type CollisionPolicy string

const (
	// PolicyRename moves the guest conversation under a freshly generated id,
	// leaving the user's existing conversation untouched. This is the default:
	// it can never silently overwrite anything.
	PolicyRename CollisionPolicy = "rename"
	// PolicyMerge appends the guest's messages into the user's existing
	// context and renumbers the copied checkpoints after the user's current
	// maximum.
	PolicyMerge CollisionPolicy = "merge"
)

// ContextRepository persists the mutable per-conversation working state.
type ContextRepository interface {
	// SaveContext upserts the context for (subjectID, conversationID).
	// First-time creation and update are indistinguishable to the caller.
	SaveContext(ctx context.Context, subjectID, conversationID string, messages []model.Message, draftContent string) (*model.ConversationContext, error)
	// GetContext returns ErrNotFound when no live (un-archived) context
	// exists for the pair.
	GetContext(ctx context.Context, subjectID, conversationID string) (*model.ConversationContext, error)
}

// CheckpointRepository persists the append-only, versioned snapshot history.
// Every multi-row mutation here runs inside a single store transaction.
type CheckpointRepository interface {
	// CreateCheckpoint allocates the next version number for the pair,
	// deactivates all sibling checkpoints and inserts cp as the active one.
	// cp.VersionNumber and cp.IsActive are filled in on success.
	CreateCheckpoint(ctx context.Context, cp *model.Checkpoint) error
	// ListCheckpoints returns the conversation's checkpoints ordered by
	// version number descending. No checkpoints is an empty slice, not an
	// error.
	ListCheckpoints(ctx context.Context, subjectID, conversationID string) ([]*model.Checkpoint, error)
	// GetCheckpoint is an ownership-scoped lookup.
	GetCheckpoint(ctx context.Context, checkpointID, subjectID string) (*model.Checkpoint, error)
	// DeleteCheckpoint removes a checkpoint. Deleting the active checkpoint
	// fails with ErrActiveCheckpoint unless replacementID names a sibling to
	// activate in the same transaction.
	DeleteCheckpoint(ctx context.Context, checkpointID, subjectID, replacementID string) error
	// RestoreCheckpoint atomically makes the checkpoint the sole active one
	// for its conversation and overwrites the conversation context from its
	// snapshot. Returns the restored checkpoint.
	RestoreCheckpoint(ctx context.Context, checkpointID, subjectID, conversationID string) (*model.Checkpoint, error)
}

// MigrationRepository re-owns a guest's state under an authenticated user.
type MigrationRepository interface {
	// MigrateSubject moves every live context and checkpoint owned by
	// guestID to userID in one transaction, archiving the originals.
	// Finding nothing to migrate is a success with zero counts.
	MigrateSubject(ctx context.Context, guestID, userID string, policy CollisionPolicy) (*model.MigrationSummary, error)
}

// Repository is the full persistence surface of the session state engine.
type Repository interface {
	ContextRepository
	CheckpointRepository
	MigrationRepository
}
