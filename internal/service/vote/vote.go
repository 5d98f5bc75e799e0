package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Cast records a first vote on an active poll.
//
// The insert and the counter increment commit together. When two casts by
// the same user race, the unique (user, poll) constraint fails the loser's
// insert and its transaction rolls back without touching the counter; the
// loser surfaces domain.ErrAlreadyVoted.
func (s *Service) Cast(ctx context.Context, userID, pollID uuid.UUID, choice domain.VoteChoice) (*domain.Vote, error) {
	if !choice.IsValid() {
		return nil, domain.NewValidationError("choice", fmt.Sprintf("unknown vote choice %q", choice))
	}

	now := s.now()
	vote := &domain.Vote{
		ID:        uuid.New(),
		UserID:    userID,
		PollID:    pollID,
		Choice:    choice,
		CreatedAt: now,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		poll, err := s.polls.GetByID(txCtx, pollID)
		if err != nil {
			return err
		}
		if !poll.AcceptsVotes(now) {
			return fmt.Errorf("poll %s: %w", pollID, domain.ErrPollArchived)
		}

		if err := s.votes.Insert(txCtx, vote); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("poll %s: %w", pollID, domain.ErrAlreadyVoted)
			}
			return fmt.Errorf("insert vote: %w", err)
		}

		return s.polls.ApplyVoteDelta(txCtx, pollID, choice, +1)
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "vote cast",
		slog.String("poll_id", pollID.String()),
		slog.String("user_id", userID.String()),
		slog.String("choice", choice.String()),
	)

	return vote, nil
}

// Change switches an existing vote to the other choice. Allowed on archived
// polls: changing does not add a vote, it moves one between counters, so the
// total never drifts. Changing to the same choice is a no-op.
func (s *Service) Change(ctx context.Context, userID, pollID uuid.UUID, choice domain.VoteChoice) (*domain.Vote, error) {
	if !choice.IsValid() {
		return nil, domain.NewValidationError("choice", fmt.Sprintf("unknown vote choice %q", choice))
	}

	var vote *domain.Vote

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.votes.GetForUser(txCtx, userID, pollID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("poll %s: %w", pollID, domain.ErrNoExistingVote)
			}
			return err
		}

		if existing.Choice == choice {
			vote = existing
			return nil
		}

		if err := s.votes.UpdateChoice(txCtx, existing.ID, choice); err != nil {
			return fmt.Errorf("update vote: %w", err)
		}
		if err := s.polls.ApplyVoteDelta(txCtx, pollID, existing.Choice, -1); err != nil {
			return err
		}
		if err := s.polls.ApplyVoteDelta(txCtx, pollID, choice, +1); err != nil {
			return err
		}

		existing.Choice = choice
		vote = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "vote changed",
		slog.String("poll_id", pollID.String()),
		slog.String("user_id", userID.String()),
		slog.String("choice", choice.String()),
	)

	return vote, nil
}

// Retract removes the user's vote and restores the counter. Allowed on
// archived polls.
func (s *Service) Retract(ctx context.Context, userID, pollID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.votes.GetForUser(txCtx, userID, pollID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("poll %s: %w", pollID, domain.ErrNoExistingVote)
			}
			return err
		}

		if err := s.votes.Delete(txCtx, existing.ID); err != nil {
			return fmt.Errorf("delete vote: %w", err)
		}

		return s.polls.ApplyVoteDelta(txCtx, pollID, existing.Choice, -1)
	})
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "vote retracted",
		slog.String("poll_id", pollID.String()),
		slog.String("user_id", userID.String()),
	)

	return nil
}

// GetForUser returns the user's vote on a poll, or domain.ErrNotFound.
func (s *Service) GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	return s.votes.GetForUser(ctx, userID, pollID)
}
