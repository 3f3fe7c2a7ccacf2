package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/model"
	"inkflow/backend/internal/repository"
)

type MigrationService struct {
	repo   repository.MigrationRepository
	policy repository.CollisionPolicy
	group  singleflight.Group
}

func NewMigrationService(repo repository.MigrationRepository, policy repository.CollisionPolicy) *MigrationService {
	if policy != repository.PolicyMerge {
		policy = repository.PolicyRename
	}
	return &MigrationService{repo: repo, policy: policy}
}

// Migrate re-owns every live context and checkpoint of the guest under the
// authenticated user. The whole guest migrates in one store transaction, and
// duplicate in-process triggers for the same guest collapse onto a single
// flight, so a client retry can never double-migrate. A guest with nothing to
// migrate gets a zero summary, not an error.
func (s *MigrationService) Migrate(ctx context.Context, guest, user model.Subject) (*model.MigrationSummary, error) {
	if !guest.IsGuest() {
		return nil, fmt.Errorf("%w: migration source must be a guest subject", app_errors.ErrValidation)
	}
	if !user.IsUser() {
		return nil, fmt.Errorf("%w: migration target must be an authenticated user", app_errors.ErrValidation)
	}
	if guest.ID == "" || user.ID == "" {
		return nil, fmt.Errorf("%w: subject ids are required", app_errors.ErrValidation)
	}

	// Concurrent callers for the same guest share the first call's result.
	// The store transaction serializes cross-process duplicates the same way.
	v, err, shared := s.group.Do(guest.StorageID(), func() (interface{}, error) {
		return s.repo.MigrateSubject(ctx, guest.StorageID(), user.StorageID(), s.policy)
	})
	if err != nil {
		return nil, storeError(err)
	}

	summary := v.(*model.MigrationSummary)
	slog.Info("Migrated guest state",
		"guest_id", guest.ID,
		"conversations", summary.ConversationsMigrated,
		"messages", summary.MessagesMigrated,
		"shared_flight", shared,
	)
	return summary, nil
}
