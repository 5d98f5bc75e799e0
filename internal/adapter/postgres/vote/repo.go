// Package vote implements the vote ledger using PostgreSQL.
// The UNIQUE (user_id, poll_id) constraint is the authoritative guarantee
// of one vote per user per poll: a losing concurrent insert fails
// deterministically instead of double-counting.
package vote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Repo provides vote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
	INSERT INTO votes (id, user_id, poll_id, choice, created_at)
	VALUES ($1, $2, $3, $4, $5)`

// Insert appends a vote row. A duplicate (user, poll) pair surfaces as
// domain.ErrAlreadyExists via the unique constraint.
func (r *Repo) Insert(ctx context.Context, v *domain.Vote) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertSQL, v.ID, v.UserID, v.PollID, string(v.Choice), v.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "vote", v.ID)
	}

	return nil
}

const getForUserSQL = `
	SELECT id, user_id, poll_id, choice, created_at
	FROM votes WHERE user_id = $1 AND poll_id = $2`

// GetForUser returns the user's vote on a poll, or domain.ErrNotFound.
func (r *Repo) GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var v domain.Vote
	var choice string
	err := q.QueryRow(ctx, getForUserSQL, userID, pollID).Scan(
		&v.ID, &v.UserID, &v.PollID, &choice, &v.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "vote", pollID)
	}
	v.Choice = domain.VoteChoice(choice)

	return &v, nil
}

const updateChoiceSQL = `UPDATE votes SET choice = $1 WHERE id = $2`

// UpdateChoice replaces the choice on an existing vote row.
func (r *Repo) UpdateChoice(ctx context.Context, voteID uuid.UUID, choice domain.VoteChoice) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateChoiceSQL, string(choice), voteID)
	if err != nil {
		return postgres.MapError(err, "vote", voteID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", voteID, domain.ErrNotFound)
	}

	return nil
}

const deleteSQL = `DELETE FROM votes WHERE id = $1`

// Delete removes a vote row.
func (r *Repo) Delete(ctx context.Context, voteID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, voteID)
	if err != nil {
		return postgres.MapError(err, "vote", voteID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", voteID, domain.ErrNotFound)
	}

	return nil
}

const countByPollSQL = `SELECT COUNT(*) FROM votes WHERE poll_id = $1`

// CountByPoll returns the live ledger row count for a poll. Used by
// consistency checks: it must equal true_votes + legend_votes at every
// observable point.
func (r *Repo) CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countByPollSQL, pollID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}

	return count, nil
}

const choicesForUserSQL = `
	SELECT poll_id, choice FROM votes
	WHERE user_id = $1 AND poll_id = ANY($2)`

// ChoicesForUser returns the user's choices for a batch of polls, keyed by
// poll ID. Polls the user has not voted on are absent from the map.
func (r *Repo) ChoicesForUser(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]domain.VoteChoice, error) {
	if len(pollIDs) == 0 {
		return map[uuid.UUID]domain.VoteChoice{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, choicesForUserSQL, userID, pollIDs)
	if err != nil {
		return nil, fmt.Errorf("list user votes: %w", err)
	}
	defer rows.Close()

	choices := make(map[uuid.UUID]domain.VoteChoice, len(pollIDs))
	for rows.Next() {
		var pollID uuid.UUID
		var choice string
		if err := rows.Scan(&pollID, &choice); err != nil {
			return nil, fmt.Errorf("scan user vote: %w", err)
		}
		choices[pollID] = domain.VoteChoice(choice)
	}

	return choices, rows.Err()
}
