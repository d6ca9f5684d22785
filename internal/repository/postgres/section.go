package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

type SectionRepo struct {
	DB DBTX
}

const createSection = `-- name: CreateSection
INSERT INTO sections (id, key, data, position, published)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, key, data, position, published, created_at, updated_at
`

func (r *SectionRepo) Create(ctx context.Context, section models.Section) (models.Section, error) {
	id := section.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createSection, id, section.Key, section.Data, section.Position, section.Published)
	created, err := pgx.CollectOneRow(rows, rowToSection)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrSectionExists
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listSections = `-- name: ListSections
SELECT id, key, data, position, published, created_at, updated_at
FROM sections
ORDER BY position, created_at
`

func (r *SectionRepo) List(ctx context.Context) ([]models.Section, error) {
	rows, _ := r.DB.Query(ctx, listSections)
	sections, err := pgx.CollectRows(rows, rowToSection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sections, nil
}

const getSectionByKey = `-- name: GetSectionByKey
SELECT id, key, data, position, published, created_at, updated_at
FROM sections
WHERE key = $1
`

func (r *SectionRepo) GetByKey(ctx context.Context, key string) (models.Section, error) {
	rows, _ := r.DB.Query(ctx, getSectionByKey, key)
	section, err := pgx.CollectOneRow(rows, rowToSection)

	switch {
	case err == nil:
		return section, nil
	case errors.Is(err, pgx.ErrNoRows):
		return section, apperrors.ErrSectionNotFound
	default:
		return section, fmt.Errorf("db error: %w", err)
	}
}

const updateSectionByKey = `-- name: UpdateSectionByKey
UPDATE sections
SET data      = COALESCE($2, data),
    position  = COALESCE($3, position),
    published = COALESCE($4, published),
    updated_at = now()
WHERE key = $1
RETURNING id, key, data, position, published, created_at, updated_at
`

func (r *SectionRepo) UpdateByKey(ctx context.Context, key string, params repository.UpdateSectionParams) (models.Section, error) {
	// nil map must stay NULL so COALESCE keeps the stored document
	var data any
	if params.Data != nil {
		data = params.Data
	}

	rows, _ := r.DB.Query(ctx, updateSectionByKey, key, data, params.Position, params.Published)
	section, err := pgx.CollectOneRow(rows, rowToSection)

	switch {
	case err == nil:
		return section, nil
	case errors.Is(err, pgx.ErrNoRows):
		return section, apperrors.ErrSectionNotFound
	default:
		return section, fmt.Errorf("db error: %w", err)
	}
}

const deleteSectionByKey = `-- name: DeleteSectionByKey
DELETE FROM sections
WHERE key = $1
RETURNING id
`

func (r *SectionRepo) DeleteByKey(ctx context.Context, key string) error {
	rows, _ := r.DB.Query(ctx, deleteSectionByKey, key)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrSectionNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const setSectionPosition = `-- name: SetSectionPosition
UPDATE sections
SET position = $2, updated_at = now()
WHERE id = $1
RETURNING id
`

func (r *SectionRepo) SetPosition(ctx context.Context, id uuid.UUID, position int) error {
	rows, _ := r.DB.Query(ctx, setSectionPosition, id, position)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrSectionNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func rowToSection(row pgx.CollectableRow) (models.Section, error) {
	var s models.Section
	err := row.Scan(&s.ID, &s.Key, &s.Data, &s.Position, &s.Published, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
