// Package vote implements vote casting, change and retraction.
//
// Every operation pairs its ledger write with the matching counter delta in
// one transaction, so the poll counters equal the ledger row counts at every
// commit point.
package vote

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

type pollStore interface {
	GetByID(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error)
	ApplyVoteDelta(ctx context.Context, pollID uuid.UUID, choice domain.VoteChoice, delta int) error
}

type voteRepo interface {
	Insert(ctx context.Context, v *domain.Vote) error
	GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error)
	UpdateChoice(ctx context.Context, voteID uuid.UUID, choice domain.VoteChoice) error
	Delete(ctx context.Context, voteID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the vote business logic.
type Service struct {
	log   *slog.Logger
	polls pollStore
	votes voteRepo
	tx    txManager
	now   func() time.Time
}

// NewService creates a new Vote service.
func NewService(logger *slog.Logger, polls pollStore, votes voteRepo, tx txManager) *Service {
	return &Service{
		log:   logger.With("service", "vote"),
		polls: polls,
		votes: votes,
		tx:    tx,
		now:   time.Now,
	}
}
