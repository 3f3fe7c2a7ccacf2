package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"inkflow/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveContext(ctx context.Context, subjectID, conversationID string, messages []model.Message, draftContent string) (*model.ConversationContext, error) {
	payload, err := marshalMessages(messages)
	if err != nil {
		return nil, fmt.Errorf("could not marshal messages: %w", err)
	}

	now := time.Now().UTC()
	// A save always produces a live row: a guest who starts writing again
	// after migration gets a fresh context under the same pair.
	query := `
		INSERT INTO conversation_contexts (subject_id, conversation_id, messages, draft_content, message_count, archived, created_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?, ?)
		ON CONFLICT(subject_id, conversation_id) DO UPDATE SET
			messages = excluded.messages,
			draft_content = excluded.draft_content,
			message_count = excluded.message_count,
			archived = FALSE,
			last_updated_at = excluded.last_updated_at
		RETURNING created_at
	`
	var createdAt time.Time
	err = r.db.QueryRowContext(ctx, query,
		subjectID, conversationID, payload, draftContent, len(messages), now, now,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("could not upsert context: %w", err)
	}

	return &model.ConversationContext{
		SubjectID:      subjectID,
		ConversationID: conversationID,
		Messages:       messages,
		DraftContent:   draftContent,
		MessageCount:   len(messages),
		CreatedAt:      createdAt,
		LastUpdatedAt:  now,
	}, nil
}

func (r *sqliteRepository) GetContext(ctx context.Context, subjectID, conversationID string) (*model.ConversationContext, error) {
	query := `
		SELECT subject_id, conversation_id, messages, draft_content, message_count, created_at, last_updated_at
		FROM conversation_contexts
		WHERE subject_id = ? AND conversation_id = ? AND archived = FALSE
	`
	row := r.db.QueryRowContext(ctx, query, subjectID, conversationID)

	var cc model.ConversationContext
	var payload string
	err := row.Scan(&cc.SubjectID, &cc.ConversationID, &payload, &cc.DraftContent, &cc.MessageCount, &cc.CreatedAt, &cc.LastUpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if cc.Messages, err = unmarshalMessages(payload); err != nil {
		return nil, fmt.Errorf("could not unmarshal messages: %w", err)
	}
	return &cc, nil
}

// upsertContextTx overwrites (or creates) the context row for the pair inside
// an existing transaction. Used by restore, where the context write must
// commit together with the active-flag flip.
func upsertContextTx(ctx context.Context, tx *sql.Tx, subjectID, conversationID string, snapshot model.ContextSnapshot, now time.Time) error {
	payload, err := marshalMessages(snapshot.Messages)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot messages: %w", err)
	}
	query := `
		INSERT INTO conversation_contexts (subject_id, conversation_id, messages, draft_content, message_count, archived, created_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?, ?)
		ON CONFLICT(subject_id, conversation_id) DO UPDATE SET
			messages = excluded.messages,
			draft_content = excluded.draft_content,
			message_count = excluded.message_count,
			archived = FALSE,
			last_updated_at = excluded.last_updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		subjectID, conversationID, payload, snapshot.DraftContent, len(snapshot.Messages), now, now)
	return err
}

func marshalMessages(messages []model.Message) (string, error) {
	if messages == nil {
		messages = []model.Message{}
	}
	b, err := json.Marshal(messages)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalMessages(payload string) ([]model.Message, error) {
	var messages []model.Message
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func marshalSnapshot(s model.ContextSnapshot) (string, error) {
	if s.Messages == nil {
		s.Messages = []model.Message{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalSnapshot(payload string) (model.ContextSnapshot, error) {
	var s model.ContextSnapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return model.ContextSnapshot{}, err
	}
	return s, nil
}
