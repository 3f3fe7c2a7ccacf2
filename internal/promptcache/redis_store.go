package promptcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inkflow/backend/internal/model"
)

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) entryKey(key string) string { return fmt.Sprintf("promptcache:%s", key) }

func (s *redisStore) Hit(ctx context.Context, key string) (*model.PromptCacheEntry, error) {
	k := s.entryKey(key)

	content, err := s.rdb.HGet(ctx, k, "content").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read cache entry: %w", err)
	}

	now := time.Now().UTC()
	pipe := s.rdb.TxPipeline()
	hits := pipe.HIncrBy(ctx, k, "hit_count", 1)
	pipe.HSet(ctx, k, "last_hit_at", now.Format(time.RFC3339Nano))
	createdAt := pipe.HGet(ctx, k, "created_at")
	// redis.Nil from the HGet means the metadata write after HSetNX never
	// landed; the entry is still usable, just without a creation time.
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("could not record cache hit: %w", err)
	}

	entry := &model.PromptCacheEntry{
		Key:       key,
		Content:   content,
		HitCount:  hits.Val(),
		LastHitAt: now,
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt.Val()); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func (s *redisStore) PutIfAbsent(ctx context.Context, entry *model.PromptCacheEntry) (bool, error) {
	k := s.entryKey(entry.Key)

	// HSetNX on the content field is the insert race arbiter: the first
	// writer wins, later writers see false and leave the entry untouched.
	stored, err := s.rdb.HSetNX(ctx, k, "content", entry.Content).Result()
	if err != nil {
		return false, fmt.Errorf("could not insert cache entry: %w", err)
	}
	if !stored {
		return false, nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSetNX(ctx, k, "hit_count", 0)
	pipe.HSet(ctx, k, "created_at", entry.CreatedAt.Format(time.RFC3339Nano))
	pipe.HSet(ctx, k, "last_hit_at", entry.LastHitAt.Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("could not write cache entry metadata: %w", err)
	}
	return true, nil
}
