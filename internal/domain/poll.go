package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPollDuration is the fixed voting window: expires_at is always
// created_at + this duration and is immutable afterwards.
const DefaultPollDuration = 7 * 24 * time.Hour

// Poll is a binary-choice question with denormalized counters.
// The counters are owned exclusively by the poll store and mutated only in
// response to ledger events; at every observable point they equal the live
// row counts of the corresponding ledgers.
type Poll struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CategoryID    *uuid.UUID
	Question      string
	TrueVotes     int
	LegendVotes   int
	LikesCount    int
	CommentsCount int
	State         PollState
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// TotalVotes returns the sum of both counters.
func (p *Poll) TotalVotes() int {
	return p.TrueVotes + p.LegendVotes
}

// IsExpired reports whether the voting window has closed relative to now.
// A poll can be expired but not yet archived: the sweeper closes that gap
// within one sweep interval, and read paths filter defensively meanwhile.
func (p *Poll) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

// AcceptsVotes reports whether a *new* vote or comment may be recorded.
// Retraction and change of an existing vote are allowed regardless.
func (p *Poll) AcceptsVotes(now time.Time) bool {
	return p.State == PollStateActive && !p.IsExpired(now)
}

// PollView is the read-side projection of a poll: the poll row joined with
// its author and category plus the derived ranking fields. Never mutated.
type PollView struct {
	Poll

	Username       string
	DisplayName    *string
	AvatarURL      *string
	AuthorIsEditor bool

	CategoryName *string
	CategoryIcon *string

	TruePercentage   int
	LegendPercentage int
	SecondsLeft      float64

	// Viewer annotations; zero-valued when the caller is anonymous.
	ViewerChoice *VoteChoice
	ViewerLiked  bool
}

// Derive fills the computed fields from the poll counters and now.
func (v *PollView) Derive(now time.Time) {
	v.TruePercentage = TruePercentage(v.TrueVotes, v.LegendVotes)
	v.LegendPercentage = 100 - v.TruePercentage
	v.SecondsLeft = v.ExpiresAt.Sub(now).Seconds()
}

// Stats holds platform-wide totals.
type Stats struct {
	TotalUsers    int
	TotalPolls    int
	ActivePolls   int
	ArchivedPolls int
	TotalVotes    int
	TodayPolls    int
}
