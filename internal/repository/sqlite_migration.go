package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkflow/backend/internal/model"
)

// guestContext is one un-archived context row enumerated for migration.
type guestContext struct {
	conversationID string
	messages       string
	draftContent   string
	messageCount   int
	createdAt      time.Time
	lastUpdatedAt  time.Time
}

// MigrateSubject moves all of a guest's live state under userID in a single
// transaction: either every conversation migrates and archives, or none do.
// Source rows are archived, never deleted, which is what makes a retry find
// nothing and return zero counts instead of duplicating data.
func (r *sqliteRepository) MigrateSubject(ctx context.Context, guestID, userID string, policy CollisionPolicy) (*model.MigrationSummary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	sources, err := enumerateGuestContexts(ctx, tx, guestID)
	if err != nil {
		return nil, err
	}

	summary := &model.MigrationSummary{}
	for _, src := range sources {
		if err := r.migrateConversation(ctx, tx, guestID, userID, src, policy); err != nil {
			return nil, err
		}
		summary.ConversationsMigrated++
		summary.MessagesMigrated += src.messageCount
	}

	// Archive any remaining live guest checkpoints. Checkpoints always belong
	// to a conversation with a context row, so this is normally a no-op, but
	// it guarantees a retry sees a fully archived guest.
	if _, err := tx.ExecContext(ctx,
		`UPDATE checkpoints SET archived = TRUE WHERE subject_id = ? AND archived = FALSE`, guestID); err != nil {
		return nil, fmt.Errorf("could not archive guest checkpoints: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit migration: %w", err)
	}
	return summary, nil
}

func enumerateGuestContexts(ctx context.Context, tx *sql.Tx, guestID string) ([]guestContext, error) {
	query := `
		SELECT conversation_id, messages, draft_content, message_count, created_at, last_updated_at
		FROM conversation_contexts
		WHERE subject_id = ? AND archived = FALSE
		ORDER BY created_at ASC
	`
	rows, err := tx.QueryContext(ctx, query, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []guestContext
	for rows.Next() {
		var src guestContext
		if err := rows.Scan(&src.conversationID, &src.messages, &src.draftContent,
			&src.messageCount, &src.createdAt, &src.lastUpdatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (r *sqliteRepository) migrateConversation(ctx context.Context, tx *sql.Tx, guestID, userID string, src guestContext, policy CollisionPolicy) error {
	targetConversationID := src.conversationID
	merge := false

	var collision bool
	check := `SELECT EXISTS(SELECT 1 FROM conversation_contexts WHERE subject_id = ? AND conversation_id = ? AND archived = FALSE)`
	if err := tx.QueryRowContext(ctx, check, userID, src.conversationID).Scan(&collision); err != nil {
		return err
	}
	if collision {
		if policy == PolicyMerge {
			merge = true
		} else {
			targetConversationID = uuid.NewString()
		}
	}

	if merge {
		if err := mergeContextTx(ctx, tx, userID, src); err != nil {
			return err
		}
	} else {
		insert := `
			INSERT INTO conversation_contexts (subject_id, conversation_id, messages, draft_content, message_count, archived, created_at, last_updated_at)
			VALUES (?, ?, ?, ?, ?, FALSE, ?, ?)
		`
		// Timestamps come from the original so the user's history stays accurate.
		if _, err := tx.ExecContext(ctx, insert,
			userID, targetConversationID, src.messages, src.draftContent,
			src.messageCount, src.createdAt, src.lastUpdatedAt); err != nil {
			return fmt.Errorf("could not copy context: %w", err)
		}
	}

	if err := r.copyCheckpoints(ctx, tx, guestID, userID, src.conversationID, targetConversationID, merge); err != nil {
		return err
	}

	archive := `UPDATE conversation_contexts SET archived = TRUE WHERE subject_id = ? AND conversation_id = ?`
	if _, err := tx.ExecContext(ctx, archive, guestID, src.conversationID); err != nil {
		return fmt.Errorf("could not archive guest context: %w", err)
	}
	return nil
}

// mergeContextTx appends the guest's messages to the user's existing context.
// The user's draft wins; the guest's draft survives in the copied checkpoints.
func mergeContextTx(ctx context.Context, tx *sql.Tx, userID string, src guestContext) error {
	var payload string
	query := `SELECT messages FROM conversation_contexts WHERE subject_id = ? AND conversation_id = ? AND archived = FALSE`
	if err := tx.QueryRowContext(ctx, query, userID, src.conversationID).Scan(&payload); err != nil {
		return err
	}

	targetMessages, err := unmarshalMessages(payload)
	if err != nil {
		return fmt.Errorf("could not unmarshal target messages: %w", err)
	}
	guestMessages, err := unmarshalMessages(src.messages)
	if err != nil {
		return fmt.Errorf("could not unmarshal guest messages: %w", err)
	}

	combined := append(targetMessages, guestMessages...)
	merged, err := marshalMessages(combined)
	if err != nil {
		return fmt.Errorf("could not marshal merged messages: %w", err)
	}

	update := `
		UPDATE conversation_contexts
		SET messages = ?, message_count = ?, last_updated_at = MAX(last_updated_at, ?)
		WHERE subject_id = ? AND conversation_id = ?
	`
	_, err = tx.ExecContext(ctx, update, merged, len(combined), src.lastUpdatedAt, userID, src.conversationID)
	return err
}

func (r *sqliteRepository) copyCheckpoints(ctx context.Context, tx *sql.Tx, guestID, userID, sourceConversationID, targetConversationID string, merge bool) error {
	query := `
		SELECT version_number, title, description, content, context_snapshot, is_active, created_at
		FROM checkpoints
		WHERE subject_id = ? AND conversation_id = ? AND archived = FALSE
		ORDER BY version_number ASC
	`
	rows, err := tx.QueryContext(ctx, query, guestID, sourceConversationID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type copiedCheckpoint struct {
		version     int64
		title       string
		description string
		content     string
		snapshot    string
		isActive    bool
		createdAt   time.Time
	}
	var copies []copiedCheckpoint
	for rows.Next() {
		var c copiedCheckpoint
		if err := rows.Scan(&c.version, &c.title, &c.description, &c.content, &c.snapshot, &c.isActive, &c.createdAt); err != nil {
			return err
		}
		copies = append(copies, c)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	insert := `
		INSERT INTO checkpoints (id, subject_id, conversation_id, version_number, title, description, content, context_snapshot, is_active, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, ?)
	`
	for _, c := range copies {
		version := c.version
		active := c.isActive
		if merge {
			// Renumber after the target's current maximum so versions stay
			// strictly increasing, and come in deactivated so the target's
			// active checkpoint stays the sole active one.
			if version, err = nextVersionTx(ctx, tx, userID, targetConversationID); err != nil {
				return err
			}
			active = false
		}
		if _, err := tx.ExecContext(ctx, insert,
			uuid.NewString(), userID, targetConversationID, version,
			c.title, c.description, c.content, c.snapshot, active, c.createdAt); err != nil {
			return fmt.Errorf("could not copy checkpoint: %w", err)
		}
	}

	if !merge {
		if err := seedSequenceTx(ctx, tx, guestID, userID, sourceConversationID, targetConversationID); err != nil {
			return err
		}
	}
	return nil
}

// seedSequenceTx carries the guest's version sequence over to the target pair
// so future checkpoints continue numbering after the migrated history (even
// past versions the guest had deleted).
func seedSequenceTx(ctx context.Context, tx *sql.Tx, guestID, userID, sourceConversationID, targetConversationID string) error {
	var lastVersion int64
	query := `SELECT last_version FROM checkpoint_sequences WHERE subject_id = ? AND conversation_id = ?`
	err := tx.QueryRowContext(ctx, query, guestID, sourceConversationID).Scan(&lastVersion)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	upsert := `
		INSERT INTO checkpoint_sequences (subject_id, conversation_id, last_version)
		VALUES (?, ?, ?)
		ON CONFLICT(subject_id, conversation_id) DO UPDATE SET last_version = MAX(last_version, excluded.last_version)
	`
	_, err = tx.ExecContext(ctx, upsert, userID, targetConversationID, lastVersion)
	return err
}
