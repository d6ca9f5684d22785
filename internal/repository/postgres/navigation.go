package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

type NavItemRepo struct {
	DB DBTX
}

const createNavItem = `-- name: CreateNavItem
INSERT INTO nav_items (id, label, path, position, visible)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, label, path, position, visible, created_at, updated_at
`

func (r *NavItemRepo) Create(ctx context.Context, item models.NavItem) (models.NavItem, error) {
	id := item.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createNavItem, id, item.Label, item.Path, item.Position, item.Visible)
	created, err := pgx.CollectOneRow(rows, rowToNavItem)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const listNavItems = `-- name: ListNavItems
SELECT id, label, path, position, visible, created_at, updated_at
FROM nav_items
WHERE visible OR NOT $1
ORDER BY position, created_at
`

func (r *NavItemRepo) List(ctx context.Context, visibleOnly bool) ([]models.NavItem, error) {
	rows, _ := r.DB.Query(ctx, listNavItems, visibleOnly)
	items, err := pgx.CollectRows(rows, rowToNavItem)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

const updateNavItem = `-- name: UpdateNavItem
UPDATE nav_items
SET label    = COALESCE($2, label),
    path     = COALESCE($3, path),
    position = COALESCE($4, position),
    visible  = COALESCE($5, visible),
    updated_at = now()
WHERE id = $1
RETURNING id, label, path, position, visible, created_at, updated_at
`

func (r *NavItemRepo) Update(ctx context.Context, id uuid.UUID, params repository.UpdateNavItemParams) (models.NavItem, error) {
	rows, _ := r.DB.Query(ctx, updateNavItem, id, params.Label, params.Path, params.Position, params.Visible)
	item, err := pgx.CollectOneRow(rows, rowToNavItem)

	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, pgx.ErrNoRows):
		return item, apperrors.ErrNavItemNotFound
	default:
		return item, fmt.Errorf("db error: %w", err)
	}
}

const deleteNavItem = `-- name: DeleteNavItem
DELETE FROM nav_items
WHERE id = $1
RETURNING id
`

func (r *NavItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, deleteNavItem, id)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrNavItemNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func rowToNavItem(row pgx.CollectableRow) (models.NavItem, error) {
	var n models.NavItem
	err := row.Scan(&n.ID, &n.Label, &n.Path, &n.Position, &n.Visible, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}
