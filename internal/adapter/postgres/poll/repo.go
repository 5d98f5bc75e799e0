// Package poll implements the poll store using PostgreSQL.
// It is the only component that mutates poll counters, and every counter
// mutation is a single relative UPDATE so concurrent deltas on the same
// poll never lose writes.
package poll

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Repo provides poll persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new poll repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// viewColumns is the SELECT list shared by all view queries. Author and
// category are resolved at read time; in particular is_editor is a live
// join, never denormalized onto the poll row.
const viewColumns = `
	p.id, p.user_id, p.category_id, p.question,
	p.true_votes, p.legend_votes, p.likes_count, p.comments_count,
	p.state, p.created_at, p.expires_at,
	u.username, u.display_name, u.avatar_url, u.is_editor,
	c.name, c.icon`

const viewJoins = `
	FROM polls p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN categories c ON c.id = p.category_id`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createPollSQL = `
	INSERT INTO polls (id, user_id, category_id, question, state, created_at, expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create inserts a new poll with zeroed counters and state active.
// The caller is responsible for expires_at = created_at + duration.
func (r *Repo) Create(ctx context.Context, p *domain.Poll) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createPollSQL,
		p.ID, p.UserID, p.CategoryID, p.Question, string(p.State), p.CreatedAt, p.ExpiresAt,
	)
	if err != nil {
		return postgres.MapError(err, "poll", p.ID)
	}

	return nil
}

// counterColumn maps a vote choice to its poll counter column.
// Choices are validated upstream; the switch is the final guard before the
// column name is interpolated into SQL.
func counterColumn(choice domain.VoteChoice) (string, error) {
	switch choice {
	case domain.VoteChoiceTrue:
		return "true_votes", nil
	case domain.VoteChoiceLegend:
		return "legend_votes", nil
	default:
		return "", domain.NewValidationError("choice", fmt.Sprintf("unknown vote choice %q", choice))
	}
}

// ApplyVoteDelta atomically adds delta to the counter matching choice.
// Returns domain.ErrNotFound if the poll does not exist.
func (r *Repo) ApplyVoteDelta(ctx context.Context, pollID uuid.UUID, choice domain.VoteChoice, delta int) error {
	column, err := counterColumn(choice)
	if err != nil {
		return err
	}
	return r.applyDelta(ctx, pollID, column, delta)
}

// ApplyLikeDelta atomically adds delta to likes_count.
func (r *Repo) ApplyLikeDelta(ctx context.Context, pollID uuid.UUID, delta int) error {
	return r.applyDelta(ctx, pollID, "likes_count", delta)
}

// ApplyCommentDelta atomically adds delta to comments_count.
func (r *Repo) ApplyCommentDelta(ctx context.Context, pollID uuid.UUID, delta int) error {
	return r.applyDelta(ctx, pollID, "comments_count", delta)
}

func (r *Repo) applyDelta(ctx context.Context, pollID uuid.UUID, column string, delta int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	// Relative update: the read-modify-write happens inside the database,
	// so interleaved deltas on the same poll commute without locking in Go.
	tag, err := q.Exec(ctx,
		fmt.Sprintf(`UPDATE polls SET %s = %s + $1 WHERE id = $2`, column, column),
		delta, pollID,
	)
	if err != nil {
		return postgres.MapError(err, "poll", pollID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("poll %s: %w", pollID, domain.ErrNotFound)
	}

	return nil
}

const transitionSQL = `
	UPDATE polls SET state = 'archived'
	WHERE id = $1 AND state = 'active' AND expires_at <= $2`

// TransitionIfExpired archives the poll iff it is active and expired.
// The check-and-set is one conditional UPDATE, so concurrent or repeated
// invocations resolve to exactly one transition. Returns whether this call
// performed it.
func (r *Repo) TransitionIfExpired(ctx context.Context, pollID uuid.UUID, now time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, transitionSQL, pollID, now)
	if err != nil {
		return false, postgres.MapError(err, "poll", pollID)
	}

	return tag.RowsAffected() == 1, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDSQL = `
	SELECT id, user_id, category_id, question,
	       true_votes, legend_votes, likes_count, comments_count,
	       state, created_at, expires_at
	FROM polls WHERE id = $1`

// GetByID returns the bare poll row.
func (r *Repo) GetByID(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.Poll
	var state string
	err := q.QueryRow(ctx, getByIDSQL, pollID).Scan(
		&p.ID, &p.UserID, &p.CategoryID, &p.Question,
		&p.TrueVotes, &p.LegendVotes, &p.LikesCount, &p.CommentsCount,
		&state, &p.CreatedAt, &p.ExpiresAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "poll", pollID)
	}
	p.State = domain.PollState(state)

	return &p, nil
}

// GetView returns the poll joined with author and category.
func (r *Repo) GetView(ctx context.Context, pollID uuid.UUID) (*domain.PollView, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT`+viewColumns+viewJoins+` WHERE p.id = $1`, pollID)
	view, err := scanView(row)
	if err != nil {
		return nil, postgres.MapError(err, "poll", pollID)
	}

	return view, nil
}

// List returns a ranked page of poll views plus the total row count.
//
// Active projection: state active AND expires_at in the future (the second
// condition covers polls the sweeper has not archived yet), ordered by
// (author is_editor DESC, likes_count DESC, created_at DESC).
// Archived projection: expires_at in the past, ordered by expires_at DESC.
func (r *Repo) List(ctx context.Context, f domain.PollListFilter, now time.Time) ([]domain.PollView, int, error) {
	base := sq.Select().PlaceholderFormat(sq.Dollar).
		Column("COUNT(*)").
		From("polls p").
		Join("users u ON u.id = p.user_id").
		LeftJoin("categories c ON c.id = p.category_id")

	switch f.Status {
	case domain.PollStatusArchived:
		base = base.Where(sq.LtOrEq{"p.expires_at": now})
	default:
		base = base.Where(sq.Eq{"p.state": string(domain.PollStateActive)}).
			Where(sq.Gt{"p.expires_at": now})
	}

	if f.CategoryID != nil {
		base = base.Where(sq.Eq{"p.category_id": *f.CategoryID})
	}

	countSQL, countArgs, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count polls: %w", err)
	}

	page := base.RemoveColumns().Column(sq.Expr(viewColumns)).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.Status == domain.PollStatusArchived {
		page = page.OrderBy("p.expires_at DESC")
	} else {
		page = page.OrderBy("u.is_editor DESC", "p.likes_count DESC", "p.created_at DESC")
	}

	pageSQL, pageArgs, err := page.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	views, err := scanViews(rows)
	if err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

const listTrendingSQL = `SELECT` + viewColumns + viewJoins + `
	WHERE p.state = 'active' AND p.expires_at > $1
	ORDER BY (p.true_votes + p.legend_votes + p.likes_count) DESC
	LIMIT $2`

// ListTrending returns active polls by total engagement.
func (r *Repo) ListTrending(ctx context.Context, now time.Time, limit int) ([]domain.PollView, error) {
	return r.listViews(ctx, listTrendingSQL, now, limit)
}

const listEndingSoonSQL = `SELECT` + viewColumns + viewJoins + `
	WHERE p.state = 'active' AND p.expires_at > $1 AND p.expires_at < $2
	ORDER BY p.expires_at ASC
	LIMIT $3`

// ListEndingSoon returns active polls whose window closes within the given
// horizon, soonest first.
func (r *Repo) ListEndingSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]domain.PollView, error) {
	return r.listViews(ctx, listEndingSoonSQL, now, now.Add(window), limit)
}

func (r *Repo) listViews(ctx context.Context, sql string, args ...any) ([]domain.PollView, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	return scanViews(rows)
}

const listExpiredActiveSQL = `
	SELECT id FROM polls
	WHERE state = 'active' AND expires_at <= $1
	ORDER BY expires_at ASC
	LIMIT $2`

// ListExpiredActive returns IDs of polls due for archival, oldest expiry
// first. The sweeper's feed; results may race with another sweeper run,
// which TransitionIfExpired tolerates.
func (r *Repo) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listExpiredActiveSQL, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired polls: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan poll id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

const statsSQL = `
	SELECT
		(SELECT COUNT(*) FROM users WHERE is_active),
		(SELECT COUNT(*) FROM polls),
		(SELECT COUNT(*) FROM polls WHERE state = 'active' AND expires_at > $1),
		(SELECT COUNT(*) FROM votes),
		(SELECT COUNT(*) FROM polls WHERE created_at >= $2)`

// Stats returns platform-wide totals.
func (r *Repo) Stats(ctx context.Context, now time.Time) (*domain.Stats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.Stats
	err := q.QueryRow(ctx, statsSQL, now, domain.QuotaDate(now)).Scan(
		&s.TotalUsers, &s.TotalPolls, &s.ActivePolls, &s.TotalVotes, &s.TodayPolls,
	)
	if err != nil {
		return nil, fmt.Errorf("poll stats: %w", err)
	}
	s.ArchivedPolls = s.TotalPolls - s.ActivePolls

	return &s, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanView(row pgx.Row) (*domain.PollView, error) {
	var v domain.PollView
	var state string
	err := row.Scan(
		&v.ID, &v.UserID, &v.CategoryID, &v.Question,
		&v.TrueVotes, &v.LegendVotes, &v.LikesCount, &v.CommentsCount,
		&state, &v.CreatedAt, &v.ExpiresAt,
		&v.Username, &v.DisplayName, &v.AvatarURL, &v.AuthorIsEditor,
		&v.CategoryName, &v.CategoryIcon,
	)
	if err != nil {
		return nil, err
	}
	v.State = domain.PollState(state)
	return &v, nil
}

func scanViews(rows pgx.Rows) ([]domain.PollView, error) {
	views := []domain.PollView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll view: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}
