package model

import "time"

// SubjectKind distinguishes anonymous guest identities from authenticated users.
type SubjectKind string

const (
	SubjectGuest SubjectKind = "guest"
	SubjectUser  SubjectKind = "user"
)

// Subject is the owner of conversation state. Keeping the kind explicit (rather
// than inferring it from the shape of the id string) lets migration and
// ownership checks be exhaustive over the two variants.
type Subject struct {
	Kind SubjectKind `json:"kind"`
	ID   string      `json:"id"`
}

func GuestSubject(id string) Subject { return Subject{Kind: SubjectGuest, ID: id} }
func UserSubject(id string) Subject  { return Subject{Kind: SubjectUser, ID: id} }

func (s Subject) IsGuest() bool { return s.Kind == SubjectGuest }
func (s Subject) IsUser() bool  { return s.Kind == SubjectUser }

// StorageID is the identifier the store keys rows by. The kind is part of
// it, so a guest id and a user id can never address the same rows no matter
// what raw strings clients present.
func (s Subject) StorageID() string { return string(s.Kind) + ":" + s.ID }

// Message stores a single message in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ContextSnapshot is the part of a conversation context that checkpoints
// capture: the message history plus the draft body at a point in time.
type ContextSnapshot struct {
	Messages     []Message `json:"messages"`
	DraftContent string    `json:"draft_content"`
}

// Clone returns a deep, independent copy of the snapshot. Checkpoints must
// hold their own copy so later edits to the live context cannot reach them.
func (s ContextSnapshot) Clone() ContextSnapshot {
	out := ContextSnapshot{DraftContent: s.DraftContent}
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	return out
}

// ConversationContext is the current working state of one conversation owned
// by one subject. There is at most one per (subject_id, conversation_id);
// every save replaces the mutable fields in place.
type ConversationContext struct {
	SubjectID      string    `json:"subject_id"`
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
	DraftContent   string    `json:"draft_content"`
	MessageCount   int       `json:"message_count"`
	Archived       bool      `json:"archived,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdatedAt  time.Time `json:"last_updated_at"`
}

// Snapshot copies the context's messages and draft into a ContextSnapshot.
func (c *ConversationContext) Snapshot() ContextSnapshot {
	return ContextSnapshot{Messages: c.Messages, DraftContent: c.DraftContent}.Clone()
}

// Checkpoint is an immutable named snapshot of a conversation context.
// Version numbers are strictly increasing per (subject, conversation) and are
// never reused, even after a checkpoint is deleted. At most one checkpoint per
// conversation is active at any instant; IsActive is the only mutable field.
type Checkpoint struct {
	ID              string          `json:"id"`
	SubjectID       string          `json:"subject_id"`
	ConversationID  string          `json:"conversation_id"`
	VersionNumber   int64           `json:"version_number"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Content         string          `json:"content"`
	ContextSnapshot ContextSnapshot `json:"context_snapshot"`
	IsActive        bool            `json:"is_active"`
	Archived        bool            `json:"archived,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PromptCacheEntry deduplicates identical generation requests across subjects.
// Content is immutable after creation; only the hit metadata changes.
type PromptCacheEntry struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	HitCount  int64     `json:"hit_count"`
	CreatedAt time.Time `json:"created_at"`
	LastHitAt time.Time `json:"last_hit_at"`
}

// MigrationSummary is the caller-visible result of migrating one guest's
// state to an authenticated user. A second migration for the same guest
// finds nothing un-archived and reports zeros.
type MigrationSummary struct {
	ConversationsMigrated int `json:"conversations_migrated"`
	MessagesMigrated      int `json:"messages_migrated"`
}
