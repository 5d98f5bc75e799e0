// Package quota implements the daily poll-creation quota using PostgreSQL.
//
// The authorization check and the increment are one conditional upsert, so
// two concurrent creations by the same user cannot both observe count = 1
// and both proceed: one of them finds the guarded UPDATE matches no row and
// is denied.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
)

// Repo provides quota persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quota repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tryIncrementSQL = `
	INSERT INTO daily_poll_limits (id, user_id, poll_date, poll_count)
	VALUES ($1, $2, $3, 1)
	ON CONFLICT (user_id, poll_date) DO UPDATE
	SET poll_count = daily_poll_limits.poll_count + 1
	WHERE daily_poll_limits.poll_count < $4
	RETURNING poll_count`

// TryIncrement atomically claims one unit of the user's daily allowance.
// Returns false when the limit is already reached; the row is then left
// untouched. Quota rows only ever grow; retiring a poll returns nothing.
func (r *Repo) TryIncrement(ctx context.Context, userID uuid.UUID, date time.Time, limit int) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	err := q.QueryRow(ctx, tryIncrementSQL, uuid.New(), userID, date, limit).Scan(&count)
	if err != nil {
		if err == pgx.ErrNoRows {
			// The guarded upsert matched nothing: allowance exhausted.
			return false, nil
		}
		return false, postgres.MapError(err, "daily_quota", userID)
	}

	return true, nil
}

const usedSQL = `
	SELECT poll_count FROM daily_poll_limits
	WHERE user_id = $1 AND poll_date = $2`

// Used returns how many polls the user has created on the given day.
func (r *Repo) Used(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	err := q.QueryRow(ctx, usedSQL, userID, date).Scan(&count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("daily_quota for user %s: %w", userID, err)
	}

	return count, nil
}
