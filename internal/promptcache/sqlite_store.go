package promptcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkflow/backend/internal/model"
)

type sqliteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Hit(ctx context.Context, key string) (*model.PromptCacheEntry, error) {
	// Increment-and-read in one statement: concurrent hits each see their own
	// count and the counter never goes backwards.
	query := `
		UPDATE prompt_cache
		SET hit_count = hit_count + 1, last_hit_at = ?
		WHERE key = ?
		RETURNING content, hit_count, created_at, last_hit_at
	`
	now := time.Now().UTC()
	entry := &model.PromptCacheEntry{Key: key}
	err := s.db.QueryRowContext(ctx, query, now, key).
		Scan(&entry.Content, &entry.HitCount, &entry.CreatedAt, &entry.LastHitAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not record cache hit: %w", err)
	}
	return entry, nil
}

func (s *sqliteStore) PutIfAbsent(ctx context.Context, entry *model.PromptCacheEntry) (bool, error) {
	query := `
		INSERT INTO prompt_cache (key, content, hit_count, created_at, last_hit_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, entry.Key, entry.Content, entry.CreatedAt, entry.LastHitAt)
	if err != nil {
		return false, fmt.Errorf("could not insert cache entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
