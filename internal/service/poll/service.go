// Package poll implements poll creation, quota accounting and the ranked
// read projections.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/config"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type pollRepo interface {
	Create(ctx context.Context, p *domain.Poll) error
	GetView(ctx context.Context, pollID uuid.UUID) (*domain.PollView, error)
	List(ctx context.Context, f domain.PollListFilter, now time.Time) ([]domain.PollView, int, error)
	ListTrending(ctx context.Context, now time.Time, limit int) ([]domain.PollView, error)
	ListEndingSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]domain.PollView, error)
	Stats(ctx context.Context, now time.Time) (*domain.Stats, error)
}

type quotaRepo interface {
	TryIncrement(ctx context.Context, userID uuid.UUID, date time.Time, limit int) (bool, error)
	Used(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
}

type categoryRepo interface {
	GetByID(ctx context.Context, categoryID uuid.UUID) (*domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
}

type voteRepo interface {
	GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error)
	ChoicesForUser(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]domain.VoteChoice, error)
}

type likeRepo interface {
	GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Like, error)
	LikedForUser(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the poll business logic.
type Service struct {
	log        *slog.Logger
	cfg        config.PollConfig
	polls      pollRepo
	quotas     quotaRepo
	categories categoryRepo
	votes      voteRepo
	likes      likeRepo
	tx         txManager
	now        func() time.Time
}

// NewService creates a new Poll service.
func NewService(
	logger *slog.Logger,
	cfg config.PollConfig,
	polls pollRepo,
	quotas quotaRepo,
	categories categoryRepo,
	votes voteRepo,
	likes likeRepo,
	tx txManager,
) *Service {
	return &Service{
		log:        logger.With("service", "poll"),
		cfg:        cfg,
		polls:      polls,
		quotas:     quotas,
		categories: categories,
		votes:      votes,
		likes:      likes,
		tx:         tx,
		now:        time.Now,
	}
}

// ---------------------------------------------------------------------------
// Viewer annotation helpers (private)
// ---------------------------------------------------------------------------

// annotateOne fills the viewer fields of a single view. Anonymous viewers
// (nil viewerID) get zero values.
func (s *Service) annotateOne(ctx context.Context, view *domain.PollView, viewerID *uuid.UUID) error {
	if viewerID == nil {
		return nil
	}

	vote, err := s.votes.GetForUser(ctx, *viewerID, view.ID)
	if err == nil {
		choice := vote.Choice
		view.ViewerChoice = &choice
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("viewer vote: %w", err)
	}

	if _, err := s.likes.GetForUser(ctx, *viewerID, view.ID); err == nil {
		view.ViewerLiked = true
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("viewer like: %w", err)
	}

	return nil
}

// annotateBatch fills the viewer fields of a page of views with two batched
// queries instead of 2N point lookups.
func (s *Service) annotateBatch(ctx context.Context, views []domain.PollView, viewerID *uuid.UUID) error {
	if viewerID == nil || len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}

	choices, err := s.votes.ChoicesForUser(ctx, *viewerID, ids)
	if err != nil {
		return fmt.Errorf("viewer votes: %w", err)
	}
	liked, err := s.likes.LikedForUser(ctx, *viewerID, ids)
	if err != nil {
		return fmt.Errorf("viewer likes: %w", err)
	}

	for i := range views {
		if choice, ok := choices[views[i].ID]; ok {
			c := choice
			views[i].ViewerChoice = &c
		}
		views[i].ViewerLiked = liked[views[i].ID]
	}

	return nil
}
