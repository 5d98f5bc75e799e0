// Package comment implements the comment ledger using PostgreSQL.
// Comments are only ever soft-deleted; the active row count per poll is the
// source of truth for comments_count.
package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Repo provides comment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new comment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
	INSERT INTO comments (id, user_id, poll_id, content, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, true, $5, $5)`

// Insert appends an active comment row.
func (r *Repo) Insert(ctx context.Context, c *domain.Comment) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertSQL, c.ID, c.UserID, c.PollID, c.Content, c.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "comment", c.ID)
	}

	return nil
}

const getByIDSQL = `
	SELECT id, user_id, poll_id, content, is_active, created_at, updated_at
	FROM comments WHERE id = $1 AND is_active`

// GetByID returns an active comment. Soft-deleted comments read as
// domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.Comment
	err := q.QueryRow(ctx, getByIDSQL, commentID).Scan(
		&c.ID, &c.UserID, &c.PollID, &c.Content, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "comment", commentID)
	}

	return &c, nil
}

const updateContentSQL = `
	UPDATE comments SET content = $1, updated_at = $2
	WHERE id = $3 AND is_active`

// UpdateContent replaces the text of an active comment.
func (r *Repo) UpdateContent(ctx context.Context, commentID uuid.UUID, content string, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateContentSQL, content, now, commentID)
	if err != nil {
		return postgres.MapError(err, "comment", commentID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}

	return nil
}

const softDeleteSQL = `
	UPDATE comments SET is_active = false, updated_at = $1
	WHERE id = $2 AND is_active`

// SoftDelete deactivates a comment. The conditional on is_active makes the
// operation idempotent: a second delete affects zero rows and reports
// domain.ErrNotFound instead of decrementing the counter twice.
func (r *Repo) SoftDelete(ctx context.Context, commentID uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, softDeleteSQL, now, commentID)
	if err != nil {
		return postgres.MapError(err, "comment", commentID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}

	return nil
}

const countByPollSQL = `SELECT COUNT(*) FROM comments WHERE poll_id = $1 AND is_active`

// CountByPoll returns the active ledger row count for a poll.
func (r *Repo) CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countByPollSQL, pollID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}

	return count, nil
}

const listByPollSQL = `
	SELECT c.id, c.user_id, c.poll_id, c.content, c.is_active, c.created_at, c.updated_at,
	       u.username, u.display_name, u.avatar_url, u.is_editor
	FROM comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.poll_id = $1 AND c.is_active
	ORDER BY c.created_at DESC
	LIMIT $2 OFFSET $3`

// ListByPoll returns a page of active comments, newest first, joined with
// their authors, plus the total active count.
func (r *Repo) ListByPoll(ctx context.Context, pollID uuid.UUID, limit, offset int) ([]domain.CommentView, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	total, err := r.CountByPoll(ctx, pollID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx, listByPollSQL, pollID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	views := []domain.CommentView{}
	for rows.Next() {
		var v domain.CommentView
		err := rows.Scan(
			&v.ID, &v.UserID, &v.PollID, &v.Content, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
			&v.Username, &v.DisplayName, &v.AvatarURL, &v.AuthorIsEditor,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		views = append(views, v)
	}

	return views, total, rows.Err()
}
