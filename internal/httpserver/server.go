package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"storefront-gateway/internal/service/cart"
	"storefront-gateway/internal/service/session"
)

// Deps bundles the services the HTTP layer depends on.
type Deps struct {
	Sessions       *session.Service
	Carts          *cart.Registry
	Editor         *cart.Editor
	Products       cart.ProductAPI
	AllowedOrigins []string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with the storefront routes.
func New(addr string, logger *log.Logger, deps Deps) *Server {
	router := buildRouter(logger, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
