// Package server exposes parsing, checking, and formatting over HTTP, and
// optionally serves a watched definitions directory.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/internal/watch"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Config holds configuration for the API server.
type Config struct {
	Addr string

	// Dir, when set, is loaded at startup and served under /v1/workspace.
	Dir string
	// Watch reloads Dir when a definition file changes.
	Watch   bool
	Workers int

	IncludeAnnotations bool
	Lint               *lint.Config
	Logger             *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	addr               string
	watch              bool
	includeAnnotations bool
	analyzer           *lint.Analyzer
	logger             *slog.Logger
	notifier           *notifier
	workspace          *workspace
}

// New creates a server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		addr:               cfg.Addr,
		watch:              cfg.Watch,
		includeAnnotations: cfg.IncludeAnnotations,
		analyzer:           lint.NewAnalyzer(cfg.Lint),
		logger:             logger,
		notifier:           newNotifier(),
	}
	if cfg.Dir != "" {
		s.workspace = &workspace{
			dir: cfg.Dir,
			opts: loader.Options{
				Workers: cfg.Workers,
				Parse:   s.parseOptions(nil),
				Logger:  logger,
			},
			analyzer: s.analyzer,
		}
	}
	return s
}

// parseOptions applies a per-request override of the annotation scope.
func (s *Server) parseOptions(includeAnnotations *bool) []parser.Option {
	scope := s.includeAnnotations
	if includeAnnotations != nil {
		scope = *includeAnnotations
	}
	return []parser.Option{parser.WithAnnotationScope(scope)}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/rules", s.handleRules)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/parse", s.handleParse)
			r.Post("/check", s.handleCheck)
			r.Post("/format", s.handleFormat)
			r.Post("/inspect", s.handleInspect)
		})
		r.Get("/workspace", s.handleWorkspace)
		r.Get("/workspace/definitions", s.handleWorkspaceDefinitions)
		r.Get("/events", s.handleEvents)
	})
	return r
}

// requestLogger logs each request through the server's slog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Reload reloads the workspace and notifies event subscribers.
func (s *Server) Reload(ctx context.Context) error {
	if s.workspace == nil {
		return nil
	}
	snap, err := s.workspace.reload(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("workspace loaded",
		"dir", snap.Dir,
		"revision", snap.Revision,
		"files", len(snap.Files),
		"statements", snap.Statements,
		"errors", snap.Errors)
	s.notifier.broadcast(snap.Revision)
	return nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	if err := s.Reload(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to load workspace: %w", err)
	}

	s.logger.Info("starting API server", "addr", ln.Addr().String())
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.workspace != nil {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchFiles reloads the workspace when a definition file changes.
func (s *Server) watchFiles(ctx context.Context) error {
	return watch.Run(ctx, []string{s.workspace.dir}, watch.Options{
		Extension: loader.Extension,
		Logger:    s.logger,
	}, func(ctx context.Context, paths []string) {
		s.logger.Debug("files changed, reloading", "paths", paths)
		if err := s.Reload(ctx); err != nil {
			s.logger.Error("reload failed", "error", err)
		}
	})
}
