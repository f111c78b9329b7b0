package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/neo-outreach/internal/config"
	httpcontroller "github.com/vadim/neo-outreach/internal/controller/http"
	"github.com/vadim/neo-outreach/internal/database"
	"github.com/vadim/neo-outreach/internal/domain/board/dao"
	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/policy"
	"github.com/vadim/neo-outreach/internal/domain/board/scheduler"
	"github.com/vadim/neo-outreach/internal/httpx/upstream/campaigns"
	"github.com/vadim/neo-outreach/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	// Infrastructure
	pg        *pgxpool.Pool
	archive   *storage.S3Storage
	backend   policy.CampaignService
	readiness map[string]httpcontroller.ReadinessChecker

	// Board sessions (interface for HTTP handlers)
	sessions *policy.Sessions

	// Scheduler for re-syncing idle boards
	scheduler *scheduler.Scheduler
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	app := &App{
		cfg:       cfg,
		router:    r,
		logger:    logger,
		readiness: make(map[string]httpcontroller.ReadinessChecker),
	}

	// Initialize infrastructure
	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	// Initialize domain layers
	if err := app.initDomains(ctx); err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	// Register routes
	app.registerRoutes()

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize scheduler
	if cfg.Refresher.Enabled {
		app.scheduler = scheduler.New(app.sessions, cfg.Refresher.Interval, logger)
	}

	return app, nil
}

// initInfrastructure initializes infrastructure components (campaign backend, DB, S3)
func (a *App) initInfrastructure(ctx context.Context) error {
	backend, err := a.newCampaignBackend(ctx)
	if err != nil {
		return err
	}
	a.backend = backend

	if a.cfg.S3.Enabled {
		archive, err := storage.NewS3Storage(storage.S3Config{
			Endpoint:        a.cfg.S3.Endpoint,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			Bucket:          a.cfg.S3.Bucket,
			Region:          a.cfg.S3.Region,
			Prefix:          a.cfg.S3.Prefix,
		})
		if err != nil {
			a.closeInfrastructure()
			return fmt.Errorf("creating s3 storage: %w", err)
		}
		a.archive = archive
	}

	return nil
}

// newCampaignBackend picks the account/campaign service implementation
func (a *App) newCampaignBackend(ctx context.Context) (policy.CampaignService, error) {
	backend, pool, err := NewCampaignBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		a.pg = pool
		a.readiness["postgres"] = httpcontroller.ReadyFunc(pool.Ping)
	}
	return backend, nil
}

// NewCampaignBackend builds the configured account/campaign service.
// The pool is non-nil for the postgres backend and must be closed by the caller.
func NewCampaignBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (policy.CampaignService, *pgxpool.Pool, error) {
	switch cfg.Campaigns.Backend {
	case config.BackendHTTP:
		client := campaigns.New(
			campaigns.WithBaseURL(cfg.Campaigns.BaseURL),
			campaigns.WithToken(cfg.Campaigns.APIToken),
			campaigns.WithTimeout(cfg.Campaigns.Timeout),
		)
		return &campaignClientAdapter{client: client, logger: logger}, nil, nil

	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return dao.NewCampaignPostgres(pool), pool, nil

	default:
		return nil, nil, fmt.Errorf("unknown campaigns backend %q", cfg.Campaigns.Backend)
	}
}

// initDomains initializes domain layers (Policy, Sessions)
func (a *App) initDomains(_ context.Context) error {
	platform, err := entity.ParsePlatform(a.cfg.Board.DefaultPlatform)
	if err != nil {
		return fmt.Errorf("board default platform: %w", err)
	}

	opts := []policy.Option{policy.WithPlatform(platform)}
	if a.archive != nil {
		opts = append(opts, policy.WithRollbackRecorder(&rollbackArchiveAdapter{archive: a.archive}))
	}

	a.sessions = policy.NewSessions(a.backend, a.logger, policy.SessionsConfig{
		Concurrency: a.cfg.Refresher.Concurrency,
		IdleTTL:     a.cfg.Board.SessionTTL,
	}, opts...)

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	// Health checks
	healthHandler := httpcontroller.NewHealthHandler(a.readiness)
	healthHandler.RegisterRoutes(a.router)

	// Swagger UI documentation
	swaggerHandler := httpcontroller.NewSwaggerHandler("Outreach Board API", OpenAPISpec)
	swaggerHandler.RegisterRoutes(a.router)

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		boardHandler := httpcontroller.NewBoardHandler(a.sessions)
		boardHandler.RegisterRoutes(r)
	})
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start scheduler if enabled
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address(), "campaigns_backend", a.cfg.Campaigns.Backend)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...", "sessions", a.sessions.Len())

	// Stop scheduler
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	a.closeInfrastructure()

	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) closeInfrastructure() {
	if a.pg != nil {
		a.pg.Close()
		a.pg = nil
	}
}
