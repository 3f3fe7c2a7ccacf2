package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkflow/backend/internal/model"
)

// nextVersionTx allocates the next version number for the pair from the
// sequence table. The sequence only ever moves forward, so numbers freed by
// checkpoint deletion are never reissued.
func nextVersionTx(ctx context.Context, tx *sql.Tx, subjectID, conversationID string) (int64, error) {
	query := `
		INSERT INTO checkpoint_sequences (subject_id, conversation_id, last_version)
		VALUES (?, ?, 1)
		ON CONFLICT(subject_id, conversation_id) DO UPDATE SET last_version = last_version + 1
		RETURNING last_version
	`
	var version int64
	if err := tx.QueryRowContext(ctx, query, subjectID, conversationID).Scan(&version); err != nil {
		return 0, fmt.Errorf("could not allocate version number: %w", err)
	}
	return version, nil
}

func (r *sqliteRepository) CreateCheckpoint(ctx context.Context, cp *model.Checkpoint) error {
	snapshot, err := marshalSnapshot(cp.ContextSnapshot)
	if err != nil {
		return fmt.Errorf("could not marshal context snapshot: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	version, err := nextVersionTx(ctx, tx, cp.SubjectID, cp.ConversationID)
	if err != nil {
		return err
	}

	deactivate := `
		UPDATE checkpoints SET is_active = FALSE
		WHERE subject_id = ? AND conversation_id = ? AND is_active = TRUE
	`
	if _, err := tx.ExecContext(ctx, deactivate, cp.SubjectID, cp.ConversationID); err != nil {
		return fmt.Errorf("could not deactivate sibling checkpoints: %w", err)
	}

	insert := `
		INSERT INTO checkpoints (id, subject_id, conversation_id, version_number, title, description, content, context_snapshot, is_active, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, TRUE, FALSE, ?)
	`
	if _, err := tx.ExecContext(ctx, insert,
		cp.ID, cp.SubjectID, cp.ConversationID, version,
		cp.Title, cp.Description, cp.Content, snapshot, cp.CreatedAt,
	); err != nil {
		return fmt.Errorf("could not insert checkpoint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit checkpoint: %w", err)
	}

	cp.VersionNumber = version
	cp.IsActive = true
	return nil
}

func (r *sqliteRepository) ListCheckpoints(ctx context.Context, subjectID, conversationID string) ([]*model.Checkpoint, error) {
	query := `
		SELECT id, subject_id, conversation_id, version_number, title, description, content, context_snapshot, is_active, created_at
		FROM checkpoints
		WHERE subject_id = ? AND conversation_id = ? AND archived = FALSE
		ORDER BY version_number DESC
	`
	rows, err := r.db.QueryContext(ctx, query, subjectID, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkpoints := []*model.Checkpoint{}
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, rows.Err()
}

func (r *sqliteRepository) GetCheckpoint(ctx context.Context, checkpointID, subjectID string) (*model.Checkpoint, error) {
	// Scoping by subject means a checkpoint owned by someone else scans as
	// no rows, which reports the same ErrNotFound as a nonexistent id.
	query := `
		SELECT id, subject_id, conversation_id, version_number, title, description, content, context_snapshot, is_active, created_at
		FROM checkpoints
		WHERE id = ? AND subject_id = ? AND archived = FALSE
	`
	cp, err := scanCheckpoint(r.db.QueryRowContext(ctx, query, checkpointID, subjectID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cp, nil
}

func (r *sqliteRepository) DeleteCheckpoint(ctx context.Context, checkpointID, subjectID, replacementID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	var conversationID string
	var isActive bool
	lookup := `SELECT conversation_id, is_active FROM checkpoints WHERE id = ? AND subject_id = ? AND archived = FALSE`
	if err := tx.QueryRowContext(ctx, lookup, checkpointID, subjectID).Scan(&conversationID, &isActive); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if isActive {
		if replacementID == "" || replacementID == checkpointID {
			return ErrActiveCheckpoint
		}
		// The replacement must be a live sibling of the same conversation.
		activate := `
			UPDATE checkpoints SET is_active = TRUE
			WHERE id = ? AND subject_id = ? AND conversation_id = ? AND archived = FALSE
		`
		res, err := tx.ExecContext(ctx, activate, replacementID, subjectID, conversationID)
		if err != nil {
			return fmt.Errorf("could not activate replacement checkpoint: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, checkpointID); err != nil {
		return fmt.Errorf("could not delete checkpoint: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) RestoreCheckpoint(ctx context.Context, checkpointID, subjectID, conversationID string) (*model.Checkpoint, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	lookup := `
		SELECT id, subject_id, conversation_id, version_number, title, description, content, context_snapshot, is_active, created_at
		FROM checkpoints
		WHERE id = ? AND subject_id = ? AND archived = FALSE
	`
	cp, err := scanCheckpoint(tx.QueryRowContext(ctx, lookup, checkpointID, subjectID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// A checkpoint id pointing at a different conversation is treated as a
	// forged reference, indistinguishable from a missing one.
	if cp.ConversationID != conversationID {
		return nil, ErrNotFound
	}

	deactivate := `
		UPDATE checkpoints SET is_active = FALSE
		WHERE subject_id = ? AND conversation_id = ? AND is_active = TRUE AND id != ?
	`
	if _, err := tx.ExecContext(ctx, deactivate, subjectID, conversationID, checkpointID); err != nil {
		return nil, fmt.Errorf("could not deactivate sibling checkpoints: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE checkpoints SET is_active = TRUE WHERE id = ?`, checkpointID); err != nil {
		return nil, fmt.Errorf("could not activate checkpoint: %w", err)
	}

	// The context overwrite commits with the flag flip or not at all; there is
	// no window where the active checkpoint and the context disagree.
	now := time.Now().UTC()
	if err := upsertContextTx(ctx, tx, subjectID, conversationID, cp.ContextSnapshot, now); err != nil {
		return nil, fmt.Errorf("could not overwrite context from snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit restore: %w", err)
	}

	cp.IsActive = true
	return cp, nil
}

// rowScanner lets scanCheckpoint work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row rowScanner) (*model.Checkpoint, error) {
	var cp model.Checkpoint
	var snapshot string
	err := row.Scan(&cp.ID, &cp.SubjectID, &cp.ConversationID, &cp.VersionNumber,
		&cp.Title, &cp.Description, &cp.Content, &snapshot, &cp.IsActive, &cp.CreatedAt)
	if err != nil {
		return nil, err
	}
	if cp.ContextSnapshot, err = unmarshalSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("could not unmarshal context snapshot: %w", err)
	}
	return &cp, nil
}
