package like

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Toggle flips the user's like on a poll and returns which way it resolved.
// Works on archived polls.
//
// Each attempt reads the current ledger state and applies the opposite write
// together with its counter delta in one transaction. Two toggles racing on
// the same (user, poll) pair can both read "no like" and both try to insert;
// the unique constraint fails the loser, whose transaction rolls back clean
// and is retried once, now observing the winner's row and resolving to an
// unlike. Net effect of N concurrent toggles is N flips, never a drifted
// counter.
func (s *Service) Toggle(ctx context.Context, userID, pollID uuid.UUID) (domain.LikeOutcome, error) {
	outcome, err := s.toggleOnce(ctx, userID, pollID)
	if err != nil && (errors.Is(err, domain.ErrAlreadyExists) || errors.Is(err, domain.ErrConflict)) {
		s.log.DebugContext(ctx, "like toggle lost a race, retrying",
			slog.String("poll_id", pollID.String()),
			slog.String("user_id", userID.String()),
		)
		outcome, err = s.toggleOnce(ctx, userID, pollID)
	}
	if err != nil {
		return "", err
	}

	s.log.DebugContext(ctx, "like toggled",
		slog.String("poll_id", pollID.String()),
		slog.String("user_id", userID.String()),
		slog.String("outcome", string(outcome)),
	)

	return outcome, nil
}

func (s *Service) toggleOnce(ctx context.Context, userID, pollID uuid.UUID) (domain.LikeOutcome, error) {
	var outcome domain.LikeOutcome

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.polls.GetByID(txCtx, pollID); err != nil {
			return err
		}

		_, err := s.likes.GetForUser(txCtx, userID, pollID)
		switch {
		case err == nil:
			if err := s.likes.DeleteForUser(txCtx, userID, pollID); err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
			if err := s.polls.ApplyLikeDelta(txCtx, pollID, -1); err != nil {
				return err
			}
			outcome = domain.LikeOutcomeUnliked
			return nil

		case errors.Is(err, domain.ErrNotFound):
			l := &domain.Like{
				ID:        uuid.New(),
				UserID:    userID,
				PollID:    pollID,
				CreatedAt: s.now(),
			}
			if err := s.likes.Insert(txCtx, l); err != nil {
				return err
			}
			if err := s.polls.ApplyLikeDelta(txCtx, pollID, +1); err != nil {
				return err
			}
			outcome = domain.LikeOutcomeLiked
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

// HasLiked reports whether the user currently likes the poll.
func (s *Service) HasLiked(ctx context.Context, userID, pollID uuid.UUID) (bool, error) {
	_, err := s.likes.GetForUser(ctx, userID, pollID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
