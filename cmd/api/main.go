package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront-gateway/internal/config"
	"storefront-gateway/internal/httpserver"
	cartsvc "storefront-gateway/internal/service/cart"
	sessionsvc "storefront-gateway/internal/service/session"
	"storefront-gateway/internal/upstream"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[gateway] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	sessions := sessionsvc.New(sessionsvc.NewFileStore(cfg.StateDir), logger)
	registry := cartsvc.NewRegistry(client, logger)
	editor := cartsvc.NewEditor(client, logger)

	// Warm the session identity up front; storage-not-ready is retried at
	// request time, so a failure here is only worth a note.
	if _, err := sessions.WaitForSession(context.Background()); err != nil {
		logger.Printf("session storage not ready at startup: %v", err)
	}

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:       sessions,
		Carts:          registry,
		Editor:         editor,
		Products:       client,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (upstream %s)", cfg.HTTPAddr, cfg.UpstreamBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
