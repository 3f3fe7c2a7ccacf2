// Package promptcache is a content-addressed store for generation results.
// Identical requests map to the same key regardless of which subject issued
// them, so expensive generation work is done once per distinct request.
package promptcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sort"
	"strings"

	"inkflow/backend/internal/model"
)

// Store is the persistence surface for cache entries. Entry content is
// immutable after the first successful insert; only hit metadata changes.
type Store interface {
	// Hit looks up key and, when present, atomically increments the hit
	// count and refreshes last_hit_at. A miss returns (nil, nil).
	Hit(ctx context.Context, key string) (*model.PromptCacheEntry, error)
	// PutIfAbsent inserts the entry unless another caller already inserted
	// the same key, in which case it reports false and changes nothing.
	// First successful insert wins.
	PutIfAbsent(ctx context.Context, entry *model.PromptCacheEntry) (bool, error)
}

// Key derives the deterministic cache key for a generation request: the
// generation model, the canonicalized prompt text and the output-affecting
// parameters (tone, format, ...). Same inputs always produce the same key.
// Every component is hashed as a length-prefixed field, so prompt text that
// happens to look like a parameter cannot collide with a request that
// actually carries that parameter.
func Key(genModel, prompt string, params map[string]string) string {
	h := sha256.New()
	writeField(h, genModel)
	writeField(h, canonicalize(prompt))

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeField(h, name)
		writeField(h, params[name])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField frames v with its length so field boundaries survive hashing
// whatever bytes the inputs contain.
func writeField(h hash.Hash, v string) {
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(v)))
	h.Write(length[:])
	h.Write([]byte(v))
}

// canonicalize lower-cases the prompt and collapses all runs of whitespace,
// so cosmetic differences in the request text do not defeat deduplication.
func canonicalize(prompt string) string {
	return strings.Join(strings.Fields(strings.ToLower(prompt)), " ")
}
