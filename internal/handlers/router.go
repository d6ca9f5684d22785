package handlers

import (
	"net/http"

	"github.com/mpetrenko/craftsite/internal/handlers/middleware"
	"github.com/mpetrenko/craftsite/internal/logger"
	"github.com/mpetrenko/craftsite/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	Auth      *AuthHandler
	Sections  *SectionHandler
	Nav       *NavigationHandler
	Contact   *ContactHandler
	Media     *MediaHandler
	UploadDir string
}

func NewRouter(cfg RouterConfig, authService middleware.AuthService, log logger.Logger) http.Handler {
	authMiddleware := middleware.Auth(authService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	withAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.HandlerFunc) http.Handler {
		return chain(h, authMiddleware, adminOnly)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", http.HandlerFunc(cfg.Auth.Register))
	api.Handle("POST /auth/login", http.HandlerFunc(cfg.Auth.Login))
	api.Handle("POST /auth/refresh", http.HandlerFunc(cfg.Auth.Refresh))
	api.Handle("POST /auth/change-password", withAuth(cfg.Auth.ChangePassword))

	api.Handle("GET /cms", http.HandlerFunc(cfg.Sections.ListPublished))
	api.Handle("GET /cms/all", withAdmin(cfg.Sections.List))
	api.Handle("GET /cms/{key}", http.HandlerFunc(cfg.Sections.Get))
	api.Handle("POST /cms", withAdmin(cfg.Sections.Create))
	api.Handle("POST /cms/reorder", withAdmin(cfg.Sections.Reorder))
	api.Handle("PATCH /cms/{key}", withAdmin(cfg.Sections.Update))
	api.Handle("DELETE /cms/{key}", withAdmin(cfg.Sections.Delete))

	api.Handle("GET /navigation", http.HandlerFunc(cfg.Nav.List))
	api.Handle("GET /navigation/all", withAdmin(cfg.Nav.ListAll))
	api.Handle("POST /navigation", withAdmin(cfg.Nav.Create))
	api.Handle("PATCH /navigation/{id}", withAdmin(cfg.Nav.Update))
	api.Handle("DELETE /navigation/{id}", withAdmin(cfg.Nav.Delete))

	api.Handle("POST /contact-messages", http.HandlerFunc(cfg.Contact.Create))
	api.Handle("GET /contact-messages", withAdmin(cfg.Contact.List))
	api.Handle("GET /contact-messages/unread-count", withAdmin(cfg.Contact.UnreadCount))
	api.Handle("PATCH /contact-messages/{id}/read", withAdmin(cfg.Contact.MarkRead))

	api.Handle("POST /upload", withAdmin(cfg.Media.Upload))
	api.Handle("GET /upload", withAdmin(cfg.Media.List))
	api.Handle("DELETE /upload/{filename}", withAdmin(cfg.Media.Delete))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	return chain(root,
		middleware.Logger(log),
	)
}
