package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"book-sanctuary/internal/config"
	"book-sanctuary/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wiring
	container, err := config.NewContainer(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer container.Close()
	cfg := container.Config

	// Handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(container.AuthService, container.Logger),
		Preferences: handler.NewPreferenceHandler(container.PreferenceService, container.Logger),
		Documents: handler.NewDocumentHandler(
			container.DocumentService,
			container.BookmarkService,
			container.PageService,
			container.Logger,
		),
		Admin:      handler.NewAdminHandler(container.DocumentService, container.ChapterService, container.Logger),
		Bookmarks:  handler.NewBookmarkHandler(container.BookmarkService, container.Logger),
		Highlights: handler.NewHighlightHandler(container.HighlightService, container.Logger),
		Chapters:   handler.NewChapterHandler(container.ChapterService, container.Logger),
		Reader:     handler.NewReaderHandler(container.ReaderManager, container.Logger),
		Proxy: handler.NewProxyHandler(
			&http.Client{Timeout: cfg.GetFetchTimeout()},
			cfg.ProxyAllowedHost,
			container.Logger,
		),
	}

	authMiddleware := handler.NewAuthMiddleware(container.AuthService, container.Logger)

	// Router
	router := handler.NewRouter(handlers, authMiddleware.Middleware, cfg.AllowedOrigins, container.Logger)

	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Idle reader sessions are reaped in the background.
	go container.ReaderManager.Run(ctx)

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server failed to start", err)
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	container.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown failed", err)
	}
	container.ReaderManager.Shutdown()

	container.Logger.Info("Server exited")
}
