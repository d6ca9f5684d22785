package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/testutil"
)

func Test_MediaFileRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	save := func(t *testing.T, tx pgx.Tx, filename string) models.MediaFile {
		t.Helper()

		r := MediaFileRepo{DB: tx}
		file, err := r.Save(t.Context(), models.MediaFile{
			OriginalName: "photo.png",
			Filename:     filename,
			Path:         "/uploads/" + filename,
			Size:         2048,
		})
		require.NoError(t, err)
		return file
	}

	t.Run("save and get by filename", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := MediaFileRepo{DB: tx}

			saved := save(t, tx, "abc123.png")
			assert.NotEqual(t, uuid.Nil, saved.ID)

			got, err := r.GetByFilename(t.Context(), "abc123.png")
			require.NoError(t, err)
			assert.Equal(t, saved.ID, got.ID)
			assert.Equal(t, "photo.png", got.OriginalName)
			assert.Equal(t, "/uploads/abc123.png", got.Path)
			assert.Equal(t, int64(2048), got.Size)
		})
	})

	t.Run("get unknown filename", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := MediaFileRepo{DB: tx}

			_, err := r.GetByFilename(t.Context(), "missing.png")
			assert.ErrorIs(t, err, apperrors.ErrFileNotFound, "should return well known error")
		})
	})

	t.Run("list newest first", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := MediaFileRepo{DB: tx}

			first := save(t, tx, "first.png")
			second := save(t, tx, "second.png")

			files, err := r.List(t.Context())
			require.NoError(t, err)
			require.Len(t, files, 2)
			assert.Equal(t, second.ID, files[0].ID)
			assert.Equal(t, first.ID, files[1].ID)
		})
	})

	t.Run("delete by filename", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := MediaFileRepo{DB: tx}

			save(t, tx, "abc123.png")

			err := r.DeleteByFilename(t.Context(), "abc123.png")
			require.NoError(t, err)

			_, err = r.GetByFilename(t.Context(), "abc123.png")
			assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

			err = r.DeleteByFilename(t.Context(), "abc123.png")
			assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
		})
	})
}
