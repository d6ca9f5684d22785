package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/craftsite/internal/logger"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository/postgres"
	"github.com/mpetrenko/craftsite/internal/service/auth"
	"github.com/mpetrenko/craftsite/internal/service/contact"
	"github.com/mpetrenko/craftsite/internal/service/content"
	"github.com/mpetrenko/craftsite/internal/service/media"
	"github.com/mpetrenko/craftsite/internal/testutil"
)

// serveApp runs the full router over a transaction backed storage.
// Everything written during fn is rolled back when the test ends.
func serveApp(pg testutil.PostgresContainer, t *testing.T, fn func(url string, authSvc *auth.AuthService)) {
	t.Helper()

	testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		authSvc, err := auth.NewService(auth.Config{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
		}, storage.User(), storage.Refresh())
		require.NoError(t, err, "auth service should be created without errors")

		contentSvc, err := content.NewService(storage)
		require.NoError(t, err)
		contactSvc, err := contact.NewService(storage.ContactMessage())
		require.NoError(t, err)

		uploadDir := t.TempDir()
		mediaSvc, err := media.NewService(uploadDir, "/uploads", storage.MediaFile())
		require.NoError(t, err)

		log, err := logger.New(logger.EnvDevelopment, logger.LevelError)
		require.NoError(t, err)

		mux := NewRouter(RouterConfig{
			Auth:      NewAuth(authSvc),
			Sections:  NewSection(contentSvc),
			Nav:       NewNavigation(contentSvc),
			Contact:   NewContact(contactSvc),
			Media:     NewMedia(mediaSvc),
			UploadDir: uploadDir,
		}, authSvc, log)

		srv := httptest.NewServer(mux)
		defer srv.Close()

		fn(srv.URL, authSvc)
	})
}

// loginAs registers a user with the role and returns its access token
func loginAs(t *testing.T, authSvc *auth.AuthService, username string, role models.Role) string {
	t.Helper()

	_, err := authSvc.Register(t.Context(), username, "StrongEnoughPassword", role)
	require.NoError(t, err)

	pair, err := authSvc.Login(t.Context(), username, "StrongEnoughPassword")
	require.NoError(t, err)

	return pair.Access.Value
}

// doJSON sends a request with optional bearer token and json body
func doJSON(t *testing.T, method string, url string, token string, reqBody string) (*http.Response, string) {
	t.Helper()

	var body io.Reader
	if reqBody != "" {
		body = strings.NewReader(reqBody)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if reqBody != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "should make request to test server")
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "should read response body")
	defer resp.Body.Close() // nolint:errcheck

	return resp, string(respBody)
}

func Test_Router_AdminGuards(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	adminRoutes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/cms/all", ""},
		{http.MethodPost, "/api/cms", `{"key": "hero", "data": {"title": "hi"}}`},
		{http.MethodPost, "/api/cms/reorder", `{"sections": []}`},
		{http.MethodDelete, "/api/cms/hero", ""},
		{http.MethodGet, "/api/navigation/all", ""},
		{http.MethodPost, "/api/navigation", `{"label": "Home", "path": "/"}`},
		{http.MethodGet, "/api/contact-messages", ""},
		{http.MethodGet, "/api/contact-messages/unread-count", ""},
		{http.MethodGet, "/api/upload", ""},
	}

	t.Run("no token answers unauthorized", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			for _, route := range adminRoutes {
				resp, body := doJSON(t, route.method, url+route.path, "", route.body)
				require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "%s %s should demand auth. Body: %s", route.method, route.path, body)
			}
		})
	})

	t.Run("plain user answers forbidden", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "regular", models.RoleUser)

			for _, route := range adminRoutes {
				resp, body := doJSON(t, route.method, url+route.path, token, route.body)
				require.Equalf(t, http.StatusForbidden, resp.StatusCode, "%s %s should demand admin role. Body: %s", route.method, route.path, body)
			}
		})
	})

	t.Run("admin passes the guard", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)

			resp, body := doJSON(t, http.MethodGet, url+"/api/cms/all", token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "admin should pass. Body: %s", body)
		})
	})

	t.Run("public routes need no token", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			for _, path := range []string{"/api/cms", "/api/navigation"} {
				resp, body := doJSON(t, http.MethodGet, url+path, "", "")
				require.Equalf(t, http.StatusOK, resp.StatusCode, "GET %s should be public. Body: %s", path, body)
				require.JSONEq(t, `[]`, body, "fresh database should answer an empty list")
			}
		})
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			resp, body := doJSON(t, http.MethodGet, url+"/api/cms/all", "not-a-real-token", "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"error": "service_error", "message": "Unauthorized"}`, body)
		})
	})
}

// decodeInto is a small helper for asserting on typed responses
func decodeInto(t *testing.T, body string, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), out))
}
