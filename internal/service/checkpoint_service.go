package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/model"
	"inkflow/backend/internal/repository"
)

type CheckpointService struct {
	checkpoints repository.CheckpointRepository
	contexts    repository.ContextRepository
}

func NewCheckpointService(checkpoints repository.CheckpointRepository, contexts repository.ContextRepository) *CheckpointService {
	return &CheckpointService{checkpoints: checkpoints, contexts: contexts}
}

// Create snapshots the conversation's current context into a new checkpoint.
// The new checkpoint becomes the active version; its version number is one
// past everything the conversation has ever had.
func (s *CheckpointService) Create(ctx context.Context, subject model.Subject, conversationID, title, description, content string) (*model.Checkpoint, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: checkpoint title is required", app_errors.ErrValidation)
	}

	cc, err := s.contexts.GetContext(ctx, subject.StorageID(), conversationID)
	if err != nil {
		return nil, storeError(err)
	}

	if content == "" {
		content = cc.DraftContent
	}

	cp := &model.Checkpoint{
		ID:              uuid.NewString(),
		SubjectID:       subject.StorageID(),
		ConversationID:  conversationID,
		Title:           title,
		Description:     description,
		Content:         content,
		ContextSnapshot: cc.Snapshot(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.checkpoints.CreateCheckpoint(ctx, cp); err != nil {
		return nil, storeError(err)
	}
	slog.Info("Created checkpoint", "conversation_id", conversationID, "version", cp.VersionNumber)
	return cp, nil
}

func (s *CheckpointService) List(ctx context.Context, subject model.Subject, conversationID string) ([]*model.Checkpoint, error) {
	checkpoints, err := s.checkpoints.ListCheckpoints(ctx, subject.StorageID(), conversationID)
	if err != nil {
		return nil, storeError(err)
	}
	return checkpoints, nil
}

func (s *CheckpointService) Get(ctx context.Context, subject model.Subject, checkpointID string) (*model.Checkpoint, error) {
	cp, err := s.checkpoints.GetCheckpoint(ctx, checkpointID, subject.StorageID())
	if err != nil {
		return nil, storeError(err)
	}
	return cp, nil
}

// Delete removes a checkpoint. Deleting the active one requires a
// replacement to activate in the same transaction; without one the call
// fails with a conflict and nothing changes.
func (s *CheckpointService) Delete(ctx context.Context, subject model.Subject, checkpointID, replacementID string) error {
	if err := s.checkpoints.DeleteCheckpoint(ctx, checkpointID, subject.StorageID(), replacementID); err != nil {
		return storeError(err)
	}
	slog.Info("Deleted checkpoint", "checkpoint_id", checkpointID)
	return nil
}

// Restore makes the checkpoint the conversation's sole active version and
// overwrites the working context from its snapshot. This is a replace, not a
// merge: edits made since the checkpoint was taken are discarded.
func (s *CheckpointService) Restore(ctx context.Context, subject model.Subject, conversationID, checkpointID string) (*model.Checkpoint, error) {
	cp, err := s.checkpoints.RestoreCheckpoint(ctx, checkpointID, subject.StorageID(), conversationID)
	if err != nil {
		return nil, storeError(err)
	}
	slog.Info("Restored checkpoint", "conversation_id", conversationID, "version", cp.VersionNumber)
	return cp, nil
}
