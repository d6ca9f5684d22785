package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
)

type MediaFileRepo struct {
	DB DBTX
}

const saveMediaFile = `-- name: SaveMediaFile
INSERT INTO media_files (id, original_name, filename, path, size_bytes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, original_name, filename, path, size_bytes, created_at
`

func (r *MediaFileRepo) Save(ctx context.Context, file models.MediaFile) (models.MediaFile, error) {
	id := file.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, saveMediaFile, id, file.OriginalName, file.Filename, file.Path, file.Size)
	saved, err := pgx.CollectOneRow(rows, rowToMediaFile)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const listMediaFiles = `-- name: ListMediaFiles
SELECT id, original_name, filename, path, size_bytes, created_at
FROM media_files
ORDER BY created_at DESC
`

func (r *MediaFileRepo) List(ctx context.Context) ([]models.MediaFile, error) {
	rows, _ := r.DB.Query(ctx, listMediaFiles)
	files, err := pgx.CollectRows(rows, rowToMediaFile)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return files, nil
}

const getMediaFileByFilename = `-- name: GetMediaFileByFilename
SELECT id, original_name, filename, path, size_bytes, created_at
FROM media_files
WHERE filename = $1
`

func (r *MediaFileRepo) GetByFilename(ctx context.Context, filename string) (models.MediaFile, error) {
	rows, _ := r.DB.Query(ctx, getMediaFileByFilename, filename)
	file, err := pgx.CollectOneRow(rows, rowToMediaFile)

	switch {
	case err == nil:
		return file, nil
	case errors.Is(err, pgx.ErrNoRows):
		return file, apperrors.ErrFileNotFound
	default:
		return file, fmt.Errorf("db error: %w", err)
	}
}

const deleteMediaFileByFilename = `-- name: DeleteMediaFileByFilename
DELETE FROM media_files
WHERE filename = $1
RETURNING id
`

func (r *MediaFileRepo) DeleteByFilename(ctx context.Context, filename string) error {
	rows, _ := r.DB.Query(ctx, deleteMediaFileByFilename, filename)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrFileNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func rowToMediaFile(row pgx.CollectableRow) (models.MediaFile, error) {
	var f models.MediaFile
	err := row.Scan(&f.ID, &f.OriginalName, &f.Filename, &f.Path, &f.Size, &f.CreatedAt)
	return f, err
}
