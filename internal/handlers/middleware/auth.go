package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mpetrenko/craftsite/internal/handlers/render"
	"github.com/mpetrenko/craftsite/internal/handlers/userctx"
	"github.com/mpetrenko/craftsite/internal/models"
)

type AuthService interface {
	// Verify access token and return its owner if the account still exists
	Authenticate(ctx context.Context, access string) (models.User, error)
}

// Auth verifies the bearer access token and attaches the user to the context.
// Missing token, bad signature, expired token and vanished user all answer
// the same generic 401.
func Auth(as AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := as.Authenticate(r.Context(), token)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
