package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Add creates a comment on an active poll. The insert and the counter
// increment commit together. Archived polls reject new comments.
func (s *Service) Add(ctx context.Context, userID, pollID uuid.UUID, content string) (*domain.Comment, error) {
	trimmed, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	now := s.now()
	comment := &domain.Comment{
		ID:        uuid.New(),
		UserID:    userID,
		PollID:    pollID,
		Content:   trimmed,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		poll, err := s.polls.GetByID(txCtx, pollID)
		if err != nil {
			return err
		}
		if !poll.AcceptsVotes(now) {
			return fmt.Errorf("poll %s: %w", pollID, domain.ErrPollArchived)
		}

		if err := s.comments.Insert(txCtx, comment); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		return s.polls.ApplyCommentDelta(txCtx, pollID, +1)
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "comment added",
		slog.String("poll_id", pollID.String()),
		slog.String("user_id", userID.String()),
		slog.String("comment_id", comment.ID.String()),
	)

	return comment, nil
}

// Update replaces the text of the caller's own comment. Only the author may
// edit; editors get no special power here.
func (s *Service) Update(ctx context.Context, commentID, actorID uuid.UUID, content string) (*domain.Comment, error) {
	trimmed, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrForbidden)
	}

	now := s.now()
	if err := s.comments.UpdateContent(ctx, commentID, trimmed, now); err != nil {
		return nil, err
	}

	comment.Content = trimmed
	comment.UpdatedAt = now
	return comment, nil
}

// Delete soft-deletes a comment and decrements the poll counter in one
// transaction. The author or any editor may delete. Deleting an already
// deleted comment reads as domain.ErrNotFound and leaves the counter alone.
func (s *Service) Delete(ctx context.Context, commentID, actorID uuid.UUID, actorIsEditor bool) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		comment, err := s.comments.GetByID(txCtx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != actorID && !actorIsEditor {
			return fmt.Errorf("comment %s: %w", commentID, domain.ErrForbidden)
		}

		if err := s.comments.SoftDelete(txCtx, commentID, s.now()); err != nil {
			return err
		}

		return s.polls.ApplyCommentDelta(txCtx, comment.PollID, -1)
	})
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "comment deleted",
		slog.String("comment_id", commentID.String()),
		slog.String("user_id", actorID.String()),
	)

	return nil
}

// ListByPoll returns a page of active comments on a poll, newest first.
func (s *Service) ListByPoll(ctx context.Context, pollID uuid.UUID, page, perPage int) ([]domain.CommentView, domain.PageInfo, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	if _, err := s.polls.GetByID(ctx, pollID); err != nil {
		return nil, domain.PageInfo{}, err
	}

	views, total, err := s.comments.ListByPoll(ctx, pollID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}

	return views, domain.NewPageInfo(total, page, perPage), nil
}
