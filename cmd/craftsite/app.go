package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mpetrenko/craftsite/internal/db"
	"github.com/mpetrenko/craftsite/internal/handlers"
	"github.com/mpetrenko/craftsite/internal/logger"
	"github.com/mpetrenko/craftsite/internal/repository/postgres"
	"github.com/mpetrenko/craftsite/internal/service/auth"
	"github.com/mpetrenko/craftsite/internal/service/contact"
	"github.com/mpetrenko/craftsite/internal/service/content"
	"github.com/mpetrenko/craftsite/internal/service/media"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	authService, err := auth.NewService(auth.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
	}, storage.User(), storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	contentService, err := content.NewService(storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating content service. Err: %w", err)
	}
	contactService, err := contact.NewService(storage.ContactMessage())
	if err != nil {
		return nil, fmt.Errorf("error while creating contact service. Err: %w", err)
	}
	mediaService, err := media.NewService(c.UploadDir, "/uploads", storage.MediaFile())
	if err != nil {
		return nil, fmt.Errorf("error while creating media service. Err: %w", err)
	}

	// Initialize handlers
	mux := handlers.NewRouter(handlers.RouterConfig{
		Auth:      handlers.NewAuth(authService),
		Sections:  handlers.NewSection(contentService),
		Nav:       handlers.NewNavigation(contentService),
		Contact:   handlers.NewContact(contactService),
		Media:     handlers.NewMedia(mediaService),
		UploadDir: c.UploadDir,
	}, authService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
