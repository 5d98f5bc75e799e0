package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a ledger row: exactly one per (user, poll), enforced by a
// composite unique constraint. The row count per poll is the source of
// truth for the poll's vote counters.
type Vote struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PollID    uuid.UUID
	Choice    VoteChoice
	CreatedAt time.Time
}

// Like is a ledger row: exactly one per (user, poll).
type Like struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PollID    uuid.UUID
	CreatedAt time.Time
}

// LikeOutcome reports which way a toggle resolved.
type LikeOutcome string

const (
	LikeOutcomeLiked   LikeOutcome = "liked"
	LikeOutcomeUnliked LikeOutcome = "unliked"
)
