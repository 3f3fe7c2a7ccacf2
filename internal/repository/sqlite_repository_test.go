package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkflow/backend/internal/model"
	"inkflow/backend/internal/repository"
)

func newMockRepo(t *testing.T) (repository.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return repository.NewSQLiteRepository(db), mock
}

func TestSQLiteRepository_GetContext(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now()

		rows := sqlmock.NewRows([]string{"subject_id", "conversation_id", "messages", "draft_content", "message_count", "created_at", "last_updated_at"}).
			AddRow("guest-1", "conv-1", `[{"role":"user","content":"hi","timestamp":"2026-01-01T00:00:00Z"}]`, "draft", 1, now, now)
		mock.ExpectQuery(`SELECT subject_id, conversation_id, messages, draft_content, message_count, created_at, last_updated_at\s+FROM conversation_contexts`).
			WithArgs("guest-1", "conv-1").
			WillReturnRows(rows)

		cc, err := repo.GetContext(ctx, "guest-1", "conv-1")
		require.NoError(t, err)
		assert.Equal(t, "conv-1", cc.ConversationID)
		assert.Len(t, cc.Messages, 1)
		assert.Equal(t, "draft", cc.DraftContent)
	})

	t.Run("Failure - no live row maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT subject_id, conversation_id, messages`).
			WithArgs("guest-1", "missing").
			WillReturnRows(sqlmock.NewRows([]string{"subject_id"}))

		_, err := repo.GetContext(ctx, "guest-1", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Failure - corrupt messages payload", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now()

		rows := sqlmock.NewRows([]string{"subject_id", "conversation_id", "messages", "draft_content", "message_count", "created_at", "last_updated_at"}).
			AddRow("guest-1", "conv-1", `{not json`, "", 0, now, now)
		mock.ExpectQuery(`SELECT subject_id, conversation_id, messages`).
			WithArgs("guest-1", "conv-1").
			WillReturnRows(rows)

		_, err := repo.GetContext(ctx, "guest-1", "conv-1")
		assert.ErrorContains(t, err, "unmarshal")
	})
}

func TestSQLiteRepository_SaveContext(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - upsert returns original creation time", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		createdAt := time.Now().Add(-time.Hour)

		mock.ExpectQuery(`INSERT INTO conversation_contexts`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

		cc, err := repo.SaveContext(ctx, "guest-1", "conv-1", []model.Message{
			{Role: "user", Content: "hi", Timestamp: time.Now()},
		}, "draft")
		require.NoError(t, err)
		assert.Equal(t, 1, cc.MessageCount)
		assert.WithinDuration(t, createdAt, cc.CreatedAt, time.Second)
	})
}

func TestSQLiteRepository_CreateCheckpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - allocates version and deactivates siblings in one transaction", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO checkpoint_sequences`).
			WithArgs("user-1", "conv-1").
			WillReturnRows(sqlmock.NewRows([]string{"last_version"}).AddRow(4))
		mock.ExpectExec(`UPDATE checkpoints SET is_active = FALSE`).
			WithArgs("user-1", "conv-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO checkpoints`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		cp := &model.Checkpoint{
			ID:             "cp-1",
			SubjectID:      "user-1",
			ConversationID: "conv-1",
			Title:          "Draft v4",
			CreatedAt:      time.Now(),
		}
		err := repo.CreateCheckpoint(ctx, cp)
		require.NoError(t, err)
		assert.Equal(t, int64(4), cp.VersionNumber)
		assert.True(t, cp.IsActive)
	})

	t.Run("Failure - insert error rolls back", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO checkpoint_sequences`).
			WillReturnRows(sqlmock.NewRows([]string{"last_version"}).AddRow(1))
		mock.ExpectExec(`UPDATE checkpoints SET is_active = FALSE`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO checkpoints`).
			WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		err := repo.CreateCheckpoint(ctx, &model.Checkpoint{ID: "cp-1", SubjectID: "u", ConversationID: "c"})
		assert.ErrorContains(t, err, "could not insert checkpoint")
	})
}

func TestSQLiteRepository_DeleteCheckpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - deleting the active checkpoint without a replacement", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conversation_id, is_active FROM checkpoints`).
			WithArgs("cp-active", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "is_active"}).AddRow("conv-1", true))
		mock.ExpectRollback()

		err := repo.DeleteCheckpoint(ctx, "cp-active", "user-1", "")
		assert.ErrorIs(t, err, repository.ErrActiveCheckpoint)
	})

	t.Run("Failure - replacement from another conversation", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conversation_id, is_active FROM checkpoints`).
			WithArgs("cp-active", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "is_active"}).AddRow("conv-1", true))
		mock.ExpectExec(`UPDATE checkpoints SET is_active = TRUE`).
			WithArgs("cp-elsewhere", "user-1", "conv-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteCheckpoint(ctx, "cp-active", "user-1", "cp-elsewhere")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Success - inactive checkpoint deletes without ceremony", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT conversation_id, is_active FROM checkpoints`).
			WithArgs("cp-old", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "is_active"}).AddRow("conv-1", false))
		mock.ExpectExec(`DELETE FROM checkpoints WHERE id = \?`).
			WithArgs("cp-old").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteCheckpoint(ctx, "cp-old", "user-1", "")
		assert.NoError(t, err)
	})
}
