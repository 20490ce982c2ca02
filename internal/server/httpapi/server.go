// Package httpapi is the thin HTTP transport over the authentication and
// collection access services. Handlers only decode requests, call a service
// and map results to status codes.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/passkeeper/server/internal/logging"
	"github.com/passkeeper/server/internal/server/services"
)

// Server serves the HTTP API.
type Server struct {
	address      string
	logger       logging.Logger
	users        *services.UserService
	collections  *services.CollectionService
	signingKeys  *services.SigningKeyService
	pseudoDomain string
}

// NewServer constructs the HTTP server.
func NewServer(address string, l logging.Logger, us *services.UserService, cs *services.CollectionService, ks *services.SigningKeyService, pseudoDomain string) *Server {
	return &Server{
		address:      address,
		logger:       l.With("module", "http_server"),
		users:        us,
		collections:  cs,
		signingKeys:  ks,
		pseudoDomain: pseudoDomain,
	}
}

// Router assembles the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/api/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/api/collections/default", s.handleEnsureDefaultCollection)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/api/users", s.handleListUsers)
			r.Post("/api/users", s.handleCreateUser)
			r.Delete("/api/users/{id}", s.handleDeleteUser)
		})
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
