// Package comment implements comment creation, editing and soft deletion.
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/config"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

type pollStore interface {
	GetByID(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error)
	ApplyCommentDelta(ctx context.Context, pollID uuid.UUID, delta int) error
}

type commentRepo interface {
	Insert(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error)
	UpdateContent(ctx context.Context, commentID uuid.UUID, content string, now time.Time) error
	SoftDelete(ctx context.Context, commentID uuid.UUID, now time.Time) error
	ListByPoll(ctx context.Context, pollID uuid.UUID, limit, offset int) ([]domain.CommentView, int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the comment business logic.
type Service struct {
	log      *slog.Logger
	cfg      config.PollConfig
	polls    pollStore
	comments commentRepo
	tx       txManager
	now      func() time.Time
}

// NewService creates a new Comment service.
func NewService(logger *slog.Logger, cfg config.PollConfig, polls pollStore, comments commentRepo, tx txManager) *Service {
	return &Service{
		log:      logger.With("service", "comment"),
		cfg:      cfg,
		polls:    polls,
		comments: comments,
		tx:       tx,
		now:      time.Now,
	}
}

// validateContent trims and bounds a comment body.
func (s *Service) validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", domain.NewValidationError("content", "required")
	}
	if utf8.RuneCountInString(trimmed) > s.cfg.CommentMaxLen {
		return "", domain.NewValidationError("content", fmt.Sprintf("too long (max %d)", s.cfg.CommentMaxLen))
	}
	return trimmed, nil
}
