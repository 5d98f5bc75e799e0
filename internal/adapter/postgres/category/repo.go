// Package category reads the static category catalog. The engine never
// writes it; catalog management is an external concern.
package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// Repo provides read-only category access.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `SELECT id, name, icon, color, created_at FROM categories WHERE id = $1`

// GetByID returns a category or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, categoryID uuid.UUID) (*domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.Category
	err := q.QueryRow(ctx, getByIDSQL, categoryID).Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "category", categoryID)
	}

	return &c, nil
}

const listAllSQL = `SELECT id, name, icon, color, created_at FROM categories ORDER BY name`

// ListAll returns the full catalog ordered by name.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listAllSQL)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
