package middleware

import (
	"net/http"

	"github.com/mpetrenko/craftsite/internal/handlers/render"
	"github.com/mpetrenko/craftsite/internal/handlers/userctx"
	"github.com/mpetrenko/craftsite/internal/models"
)

// RequireRole checks the authenticated user's role against an allow-list.
// Runs after Auth: no identity in context answers 401, wrong role answers 403.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userctx.FromContext(r.Context())
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if _, ok := allowed[user.Role]; !ok {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
