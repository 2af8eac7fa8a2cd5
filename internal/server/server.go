// Package server wires the playground together and runs the HTTP server.
//
// New is the composition root:
//
//	Runner ─┐
//	journal ┼─► ExecutionService ─► RunHandler  (POST /run)
//	metrics ┘                   └─► RunsHandler (GET /api/runs)
//	Limiter ───────────────────────► RunHandler  (admission)
//
// Start owns the lifetime of everything New created: the limiter sweeper,
// the journal database and the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/python-playground/internal/executor"
	"github.com/sakif/python-playground/internal/handler"
	"github.com/sakif/python-playground/internal/metrics"
	"github.com/sakif/python-playground/internal/middleware"
	"github.com/sakif/python-playground/internal/ratelimit"
	sqliteRepo "github.com/sakif/python-playground/internal/repository/sqlite"
	"github.com/sakif/python-playground/internal/service"
)

// Config holds server configuration.
type Config struct {
	Addr        string
	TemplateDir string
	StaticDir   string
	DBPath      string // empty disables the run journal
	RateLimit   ratelimit.Config
	Input       service.InputDefaults
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	db      *sqliteRepo.DB // nil when the journal is disabled
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	service *service.ExecutionService
}

// warmCounter is implemented by runners that keep a pool of ready sandboxes.
type warmCounter interface {
	WarmContainers() int
}

// New creates a Server that runs code with runner.
func New(cfg Config, logger *slog.Logger, runner executor.Runner) (*Server, error) {
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		limiter: ratelimit.New(cfg.RateLimit, logger),
	}

	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
	} else {
		logger.Info("run journal disabled")
	}

	var warm func() int
	if wc, ok := runner.(warmCounter); ok {
		warm = wc.WarmContainers
	}
	s.metrics = metrics.New(s.limiter.Identities, warm)

	opts := []service.Option{
		service.WithMetrics(s.metrics),
		service.WithInputDefaults(cfg.Input),
	}
	if s.db != nil {
		opts = append(opts, service.WithJournal(s.db))
	}
	s.service = service.NewExecutionService(runner, logger, opts...)

	if err := s.setupRoutes(); err != nil {
		s.closeDB()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and routes:
//
//	GET  /           playground page
//	GET  /static/*   assets
//	POST /run        run a snippet
//	GET  /api/runs   recent run journal entries
//	GET  /healthz    liveness
//	GET  /metrics    Prometheus
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Identify)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	playgroundHandler, err := handler.NewPlaygroundHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating playground handler: %w", err)
	}
	s.router.Get("/", playgroundHandler.HandlePlayground)

	runHandler := handler.NewRunHandler(s.service, s.limiter, s.metrics.RecordRateLimited, s.logger)
	s.router.Post("/run", runHandler.HandleRun)

	runsHandler := handler.NewRunsHandler(s.service, s.logger)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/runs", runsHandler.HandleList)
	})

	s.router.Get("/healthz", handler.HandleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// in-flight requests get 30 seconds, then the limiter sweeper stops and the
// journal is closed.
func (s *Server) Start() error {
	defer s.closeDB()

	s.limiter.Start()
	defer s.limiter.Stop()

	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.Addr),
			slog.String("database", s.config.DBPath),
			slog.Int("rateLimitMax", s.limiter.MaxRequests()),
			slog.Duration("rateLimitWindow", s.limiter.Window()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) closeDB() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close database", slog.String("error", err.Error()))
	}
}
