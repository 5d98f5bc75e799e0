package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a ledger row counted while IsActive. Deletion is always soft:
// moderation may flip the flag back, so rows are never physically purged
// by the engine.
type Comment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PollID    uuid.UUID
	Content   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentView is a comment joined with its author for read paths.
type CommentView struct {
	Comment

	Username       string
	DisplayName    *string
	AvatarURL      *string
	AuthorIsEditor bool
}
