package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	httpapi "github.com/aussiebroadwan/licensor/internal/licensing/http"
	"github.com/aussiebroadwan/licensor/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/internal/licensing/store/drivers/postgres"
	"github.com/aussiebroadwan/licensor/internal/licensing/store/drivers/sqlite"
	"github.com/aussiebroadwan/licensor/pkg/cryptox"
	"github.com/aussiebroadwan/licensor/pkg/jwtx"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// AdminKeyInfo labels the HKDF expansion of LICENSOR_ADMIN_SECRET.
	AdminKeyInfo = "licensor-admin-hs256"
)

// Application encapsulates the license authority with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	metrics     *metrics.Metrics
	auditSink   audit.Sink
	mongoClient *mongo.Client // nil unless audit goes to MongoDB
	verifier    jwtx.Verifier // nil unless the admin API is enabled

	// Services
	licenseService      *service.LicenseService
	releaseService      *service.ReleaseService
	adminService        *service.AdminService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "licensor",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initAudit(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initAdminAuth(); err != nil {
		app.closeDependencies(ctx)
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("licensor starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"seat_policy", app.cfg.SeatPolicy,
		"admin_api", app.verifier != nil,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down licensor...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.closeDependencies(ctx); err != nil {
		return err
	}

	app.logger.Info("licensor stopped")
	return nil
}

// Handler exposes the router for in-process use.
func (app *Application) Handler() http.Handler { return app.router }

// Close releases the dependencies of an application that was never Run.
func (app *Application) Close() error {
	return app.closeDependencies(context.Background())
}

func (app *Application) closeDependencies(ctx context.Context) error {
	if app.mongoClient != nil {
		if err := app.mongoClient.Disconnect(ctx); err != nil {
			app.logger.Error("error disconnecting audit store", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// OpenStore opens the key store selected by cfg without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverSQLite, "":
		return sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("LICENSOR_DATABASE_URL is required for the postgres driver")
		}
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
}

// initAudit selects the audit sink: MongoDB when configured, else the log.
func (app *Application) initAudit(ctx context.Context) error {
	if app.cfg.AuditMongoURI == "" {
		app.auditSink = audit.LogSink{Logger: app.logger}
		return nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(app.cfg.AuditMongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect audit store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to reach audit store: %w", err)
	}

	sink, err := audit.NewMongoSink(ctx, client.Database(app.cfg.AuditMongoDatabase))
	if err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to initialize audit store: %w", err)
	}

	app.mongoClient = client
	app.auditSink = sink
	app.logger.Info("audit events recorded in mongodb", "database", app.cfg.AuditMongoDatabase)
	return nil
}

// initAdminAuth enables operator token verification when a secret is set.
func (app *Application) initAdminAuth() error {
	if app.cfg.AdminSecret == "" {
		app.logger.Info("admin API disabled (LICENSOR_ADMIN_SECRET not set)")
		return nil
	}

	h, err := NewAdminSigner(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize admin auth: %w", err)
	}
	app.verifier = h
	return nil
}

// NewAdminSigner derives the HS256 operator key from cfg.AdminSecret.
func NewAdminSigner(cfg Config) (*jwtx.HS256, error) {
	key, err := cryptox.DeriveKey(cfg.AdminSecret, AdminKeyInfo, 32)
	if err != nil {
		return nil, err
	}
	return jwtx.NewHS256(key, cfg.AdminIssuer)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.licenseService = &service.LicenseService{
		Store:      app.db,
		SeatPolicy: app.cfg.SeatPolicy,
		DevBypass:  app.cfg.DevBypass,
		Audit:      app.auditSink,
		Metrics:    app.metrics,
	}
	app.releaseService = &service.ReleaseService{
		Store:   app.db,
		Metrics: app.metrics,
		Audit:   app.auditSink,
	}
	app.adminService = &service.AdminService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.IdleActivationTTL,
	)
	app.housekeepingService.Metrics = app.metrics
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	// Wire services to router
	router.LicenseService = app.licenseService
	router.ReleaseService = app.releaseService
	router.AdminService = app.adminService
	if reader, ok := app.auditSink.(audit.Reader); ok {
		router.AuditReader = reader
	}
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
