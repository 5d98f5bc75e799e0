// Package like implements the like ledger using PostgreSQL.
package like

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Repo provides like persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new like repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
	INSERT INTO likes (id, user_id, poll_id, created_at)
	VALUES ($1, $2, $3, $4)`

// Insert appends a like row. A duplicate (user, poll) pair surfaces as
// domain.ErrAlreadyExists via the unique constraint, which is how a losing
// concurrent toggle learns it must flip to a delete.
func (r *Repo) Insert(ctx context.Context, l *domain.Like) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertSQL, l.ID, l.UserID, l.PollID, l.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "like", l.ID)
	}

	return nil
}

const getForUserSQL = `
	SELECT id, user_id, poll_id, created_at
	FROM likes WHERE user_id = $1 AND poll_id = $2`

// GetForUser returns the user's like on a poll, or domain.ErrNotFound.
func (r *Repo) GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Like, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var l domain.Like
	err := q.QueryRow(ctx, getForUserSQL, userID, pollID).Scan(
		&l.ID, &l.UserID, &l.PollID, &l.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "like", pollID)
	}

	return &l, nil
}

const deleteForUserSQL = `DELETE FROM likes WHERE user_id = $1 AND poll_id = $2`

// DeleteForUser removes the user's like on a poll. Returns domain.ErrNotFound
// when there is none (e.g. a concurrent toggle already removed it).
func (r *Repo) DeleteForUser(ctx context.Context, userID, pollID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteForUserSQL, userID, pollID)
	if err != nil {
		return postgres.MapError(err, "like", pollID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("like for poll %s: %w", pollID, domain.ErrNotFound)
	}

	return nil
}

const countByPollSQL = `SELECT COUNT(*) FROM likes WHERE poll_id = $1`

// CountByPoll returns the live ledger row count for a poll.
func (r *Repo) CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countByPollSQL, pollID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

const likedForUserSQL = `
	SELECT poll_id FROM likes
	WHERE user_id = $1 AND poll_id = ANY($2)`

// LikedForUser returns the subset of pollIDs the user has liked.
func (r *Repo) LikedForUser(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(pollIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, likedForUserSQL, userID, pollIDs)
	if err != nil {
		return nil, fmt.Errorf("list user likes: %w", err)
	}
	defer rows.Close()

	liked := make(map[uuid.UUID]bool, len(pollIDs))
	for rows.Next() {
		var pollID uuid.UUID
		if err := rows.Scan(&pollID); err != nil {
			return nil, fmt.Errorf("scan user like: %w", err)
		}
		liked[pollID] = true
	}

	return liked, rows.Err()
}
