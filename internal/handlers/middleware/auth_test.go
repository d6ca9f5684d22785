package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/craftsite/internal/handlers/userctx"
	"github.com/mpetrenko/craftsite/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, access string) (models.User, error)

func (f authFunc) Authenticate(ctx context.Context, access string) (models.User, error) {
	return f(ctx, access)
}

func TestAuth(t *testing.T) {
	// Simple handler that writes the username of the context user
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user or write error to response
		user, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Username))
		require.NoError(t, err, "should write username to response")
	})

	get := func(t *testing.T, url string, token string) (*http.Response, string) {
		t.Helper()

		req, err := http.NewRequest(http.MethodGet, url, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", token)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return resp, string(body)
	}

	t.Run("auth ok", func(t *testing.T) {
		// Middleware that accepts one exact token
		middleware := Auth(authFunc(func(ctx context.Context, access string) (models.User, error) {
			require.Equal(t, "valid-token", access, "should pass the bare token without the Bearer prefix")
			return models.User{Username: "test-user"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL+"/test", "Bearer valid-token")

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", body)
		require.Equal(t, "test-user", body, "should return username in response")
	})

	t.Run("auth fail", func(t *testing.T) {
		// Middleware that always fails
		middleware := Auth(authFunc(func(ctx context.Context, access string) (models.User, error) {
			return models.User{}, errors.New("token is no good")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL+"/test", "Bearer whatever")

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", body)
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Unauthorized"
			}`,
			body,
		)
	})

	t.Run("header variants rejected without service call", func(t *testing.T) {
		middleware := Auth(authFunc(func(ctx context.Context, access string) (models.User, error) {
			t.Fatal("service must not be called without a bearer token")
			return models.User{}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		for _, header := range []string{"", "Bearer ", "Basic dXNlcjpwd2Q=", "valid-token"} {
			resp, body := get(t, srv.URL+"/test", header)
			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "header %q should be rejected. Resp: %s", header, body)
		}
	})
}
