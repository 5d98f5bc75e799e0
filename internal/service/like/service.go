// Package like implements the like toggle.
package like

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

type pollStore interface {
	GetByID(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error)
	ApplyLikeDelta(ctx context.Context, pollID uuid.UUID, delta int) error
}

type likeRepo interface {
	Insert(ctx context.Context, l *domain.Like) error
	GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Like, error)
	DeleteForUser(ctx context.Context, userID, pollID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the like business logic.
type Service struct {
	log   *slog.Logger
	polls pollStore
	likes likeRepo
	tx    txManager
	now   func() time.Time
}

// NewService creates a new Like service.
func NewService(logger *slog.Logger, polls pollStore, likes likeRepo, tx txManager) *Service {
	return &Service{
		log:   logger.With("service", "like"),
		polls: polls,
		likes: likes,
		tx:    tx,
		now:   time.Now,
	}
}
