// Package server wires the frame and card handlers into an HTTP server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typecard/internal/card"
	"github.com/verte-zerg/typecard/internal/frame"
	"github.com/verte-zerg/typecard/internal/logging"
	"github.com/verte-zerg/typecard/internal/model"
)

const (
	// HealthPath answers liveness probes.
	HealthPath = "/healthz"

	requestTimeout         = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// NewRouter builds the HTTP routes. baseURL must already be validated; it
// roots every link the frame handler emits.
func NewRouter(baseURL string, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	frameHandler, err := frame.NewHandler(baseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build frame handler: %w", err)
	}
	renderer, err := card.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to build card renderer: %w", err)
	}
	cardHandler := card.NewHandler(renderer, logger)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get(HealthPath, healthz(logger))
	r.Mount(model.FramePath, frameHandler.Routes())
	r.Mount(model.CardPath, cardHandler.Routes())
	return r, nil
}

func healthz(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			logger.Debug("failed to write health response", "err", err)
		}
	}
}

// Server runs an HTTP server until its context is cancelled.
type Server struct {
	http            *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a server listening on addr.
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: requestTimeout,
		},
		logger:          logger,
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		s.logger.Info("server exited")
		return nil
	})

	return g.Wait()
}
