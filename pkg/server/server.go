// Package server is a development contact service speaking the wire
// protocol the client consumes.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/httputil"
	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/store"
)

// DefaultLimit is the page size used when a list request names none.
const DefaultLimit = 30

// Config controls the listener.
type Config struct {
	ListenAddr   string
	WriteTimeout time.Duration
}

// Server serves contacts from a store.
type Server struct {
	cfg    Config
	store  store.ContactStore
	logger *logging.ColoredLogger
	router chi.Router
	server *http.Server
}

// New builds the router. A nil logger discards output.
func New(st store.ContactStore, cfg Config, logger *logging.ColoredLogger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		logger: logger,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.NewStandardLogger(logger, logging.ComponentServer),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(cfg.WriteTimeout))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/"+contact.Resource, func(r chi.Router) {
		r.Get("/", s.handleList("query"))
		r.Get("/search", s.handleList("q"))
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	return s
}

// Handler returns the router for tests or embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.ComponentInfo(logging.ComponentServer, "Contact service starting",
		zap.String("listen_addr", listener.Addr().String()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.ComponentError(logging.ComponentServer, "Contact service error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	if s == nil || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.ComponentInfo(logging.ComponentServer, "Contact service shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.ComponentError(logging.ComponentServer, "Contact service shutdown error", zap.Error(err))
		return err
	}
	return nil
}
