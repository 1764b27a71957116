// Package server exposes the layout pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stepflow/pkg/config"
	"github.com/matzehuels/stepflow/pkg/httputil"
	"github.com/matzehuels/stepflow/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server is the stepflow HTTP API.
type Server struct {
	runner  *pipeline.Runner
	cfg     config.ServerConfig
	base    pipeline.Options
	logger  *log.Logger
	handler http.Handler
}

// Config holds the dependencies of a Server.
type Config struct {
	Runner *pipeline.Runner
	Server config.ServerConfig
	// Options are the defaults every request starts from. Query parameters
	// override them per request.
	Options pipeline.Options
	Logger  *log.Logger
}

// New creates a server. Zero values in cfg.Server fall back to the
// config package defaults.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	sc := cfg.Server
	if sc.Addr == "" {
		sc.Addr = config.DefaultAddr
	}
	if sc.ReadTimeout <= 0 {
		sc.ReadTimeout = config.DefaultReadTimeout
	}
	if sc.WriteTimeout <= 0 {
		sc.WriteTimeout = config.DefaultWriteTimeout
	}
	if sc.MaxBodyBytes <= 0 {
		sc.MaxBodyBytes = config.DefaultMaxBodyBytes
	}

	s := &Server{
		runner: cfg.Runner,
		cfg:    sc,
		base:   cfg.Options,
		logger: cfg.Logger,
	}

	r := chi.NewMux()
	r.Use(
		httputil.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)
	s.handler = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is like Serve but accepts connections on ln.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
