package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/testutil"
)

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Tokens reference a user, so create one per test
	createUser := func(t *testing.T, tx pgx.Tx) models.User {
		t.Helper()

		r := UserRepo{DB: tx}
		user, err := r.CreateUser(t.Context(), "tokenowner", "hashedpassword123", models.RoleUser)
		require.NoError(t, err)
		return user
	}

	newToken := func(userID uuid.UUID, value string) models.RefreshToken {
		return models.RefreshToken{
			ID:        uuid.New(),
			UserID:    userID,
			Token:     value,
			CreatedAt: time.Now().Truncate(time.Second),
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second),
		}
	}

	t.Run("save and get", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx)
			r := RefreshTokenRepo{DB: tx}

			token := newToken(user.ID, "signed.jwt.value")
			require.NoError(t, r.Save(t.Context(), token))

			got, err := r.Get(t.Context(), "signed.jwt.value")
			require.NoError(t, err)

			assert.Equal(t, token.ID, got.ID)
			assert.Equal(t, user.ID, got.UserID)
			assert.Equal(t, "signed.jwt.value", got.Token)
			assert.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Second)
		})
	})

	t.Run("get unknown token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := RefreshTokenRepo{DB: tx}

			_, err := r.Get(t.Context(), "never-saved")
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound, "should return well known error")
		})
	})

	t.Run("expired record still returned", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx)
			r := RefreshTokenRepo{DB: tx}

			token := newToken(user.ID, "old.jwt.value")
			token.ExpiresAt = time.Now().Add(-time.Hour).Truncate(time.Second)
			require.NoError(t, r.Save(t.Context(), token))

			// Liveness is the caller's decision, the repo just reads
			got, err := r.Get(t.Context(), "old.jwt.value")
			require.NoError(t, err)
			assert.True(t, got.ExpiresAt.Before(time.Now()))
		})
	})

	t.Run("duplicate token value rejected", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx)
			r := RefreshTokenRepo{DB: tx}

			require.NoError(t, r.Save(t.Context(), newToken(user.ID, "same.value")))
			err := r.Save(t.Context(), newToken(user.ID, "same.value"))
			assert.Error(t, err, "token column is unique")
		})
	})

	t.Run("several tokens per user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx)
			r := RefreshTokenRepo{DB: tx}

			// One login per device, every token stays valid
			require.NoError(t, r.Save(t.Context(), newToken(user.ID, "laptop")))
			require.NoError(t, r.Save(t.Context(), newToken(user.ID, "phone")))

			for _, value := range []string{"laptop", "phone"} {
				got, err := r.Get(t.Context(), value)
				require.NoError(t, err)
				assert.Equal(t, user.ID, got.UserID)
			}
		})
	})
}
