package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/service/auth"
	"github.com/mpetrenko/craftsite/internal/testutil"
)

func Test_NavigationHandler(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createItem := func(t *testing.T, url string, token string, payload string) NavItemResponse {
		t.Helper()

		resp, body := doJSON(t, http.MethodPost, url+"/api/navigation", token, payload)
		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

		var item NavItemResponse
		decodeInto(t, body, &item)
		return item
	}

	t.Run("create", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)

			item := createItem(t, url, token, `{"label": "Home", "path": "/", "position": 1}`)

			assert.Equal(t, "Home", item.Label)
			assert.Equal(t, "/", item.Path)
			assert.Equal(t, 1, item.Position)
			assert.True(t, item.Visible, "visibility should default to true")
			assert.NotEmpty(t, item.ID)
		})
	})

	t.Run("create validation", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)

			resp, body := doJSON(t, http.MethodPost, url+"/api/navigation", token, `{"path": "/"}`)
			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "validation_failed",
					"message": "Request validation failed",
					"fields": {
						"label": "This field is required"
					}
				}`, body)
		})
	})

	t.Run("public list hides invisible items", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)

			createItem(t, url, token, `{"label": "Home", "path": "/", "position": 1}`)
			createItem(t, url, token, `{"label": "Secret", "path": "/secret", "position": 2, "visible": false}`)

			resp, body := doJSON(t, http.MethodGet, url+"/api/navigation", "", "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			var items []NavItemResponse
			decodeInto(t, body, &items)
			require.Len(t, items, 1)
			assert.Equal(t, "Home", items[0].Label)

			resp, body = doJSON(t, http.MethodGet, url+"/api/navigation/all", token, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			decodeInto(t, body, &items)
			require.Len(t, items, 2, "admin listing shows hidden items too")
		})
	})

	t.Run("update", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)
			item := createItem(t, url, token, `{"label": "Home", "path": "/", "position": 1}`)

			resp, body := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/navigation/%s", url, item.ID), token, `{"label": "Start", "visible": false}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			var updated NavItemResponse
			decodeInto(t, body, &updated)
			assert.Equal(t, item.ID, updated.ID)
			assert.Equal(t, "Start", updated.Label)
			assert.Equal(t, "/", updated.Path, "path should be untouched")
			assert.False(t, updated.Visible)
		})
	})

	t.Run("update unknown id", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)

			for _, id := range []string{"00000000-0000-0000-0000-000000000001", "not-even-a-uuid"} {
				resp, body := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/navigation/%s", url, id), token, `{"label": "Start"}`)
				require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code for id %q. Body: %s", id, body)
			}
		})
	})

	t.Run("delete", func(t *testing.T) {
		serveApp(pg, t, func(url string, authSvc *auth.AuthService) {
			token := loginAs(t, authSvc, "boss", models.RoleAdmin)
			item := createItem(t, url, token, `{"label": "Home", "path": "/"}`)

			resp, body := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/navigation/%s", url, item.ID), token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `{"deleted": true}`, body)

			resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/navigation/%s", url, item.ID), token, "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})
}
