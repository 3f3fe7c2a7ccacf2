package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/model"
	"inkflow/backend/internal/repository"
	mock_repo "inkflow/backend/internal/repository/mocks"
	"inkflow/backend/internal/service"
)

func TestMigrationService_Migrate(t *testing.T) {
	ctx := context.Background()
	guest := model.GuestSubject("guest-1")
	user := model.UserSubject("user-1")

	t.Run("Success", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.PolicyRename)

		expected := &model.MigrationSummary{ConversationsMigrated: 2, MessagesMigrated: 9}
		repo.On("MigrateSubject", ctx, "guest:guest-1", "user:user-1", repository.PolicyRename).
			Return(expected, nil).Once()

		summary, err := svc.Migrate(ctx, guest, user)
		require.NoError(t, err)
		assert.Equal(t, expected, summary)
	})

	t.Run("Success - nothing to migrate yields zero summary", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.PolicyRename)

		repo.On("MigrateSubject", ctx, "guest:guest-1", "user:user-1", repository.PolicyRename).
			Return(&model.MigrationSummary{}, nil).Once()

		summary, err := svc.Migrate(ctx, guest, user)
		require.NoError(t, err)
		assert.Zero(t, summary.ConversationsMigrated)
		assert.Zero(t, summary.MessagesMigrated)
	})

	t.Run("Success - unknown policy falls back to rename", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.CollisionPolicy("bogus"))

		repo.On("MigrateSubject", ctx, "guest:guest-1", "user:user-1", repository.PolicyRename).
			Return(&model.MigrationSummary{}, nil).Once()

		_, err := svc.Migrate(ctx, guest, user)
		assert.NoError(t, err)
	})

	t.Run("Failure - source must be a guest", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.PolicyRename)

		_, err := svc.Migrate(ctx, model.UserSubject("user-2"), user)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - target must be a user", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.PolicyRename)

		_, err := svc.Migrate(ctx, guest, model.GuestSubject("guest-2"))
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - empty subject id", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.PolicyRename)

		_, err := svc.Migrate(ctx, model.GuestSubject(""), user)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Concurrent duplicates collapse onto one store call", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewMigrationService(repo, repository.PolicyRename)

		release := make(chan struct{})
		started := make(chan struct{})
		repo.On("MigrateSubject", ctx, "guest:guest-1", "user:user-1", repository.PolicyRename).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).
			Return(&model.MigrationSummary{ConversationsMigrated: 1, MessagesMigrated: 4}, nil).
			Once()

		const callers = 4
		var wg sync.WaitGroup
		results := make([]*model.MigrationSummary, callers)
		errs := make([]error, callers)

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[0], errs[0] = svc.Migrate(ctx, guest, user)
		}()
		<-started

		for i := 1; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = svc.Migrate(ctx, guest, user)
			}(i)
		}
		// Give the duplicate callers time to join the in-flight migration
		// before it is allowed to finish.
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, 1, results[i].ConversationsMigrated)
			assert.Equal(t, 4, results[i].MessagesMigrated)
		}
	})
}
