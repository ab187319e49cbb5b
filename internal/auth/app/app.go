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

	httpapi "github.com/daykeephq/daykeep/internal/auth/http"
	"github.com/daykeephq/daykeep/internal/auth/mail"
	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/internal/auth/store"
	"github.com/daykeephq/daykeep/internal/auth/store/drivers/sqlite"
	"github.com/daykeephq/daykeep/internal/auth/store/drivers/surreal"
	"github.com/daykeephq/daykeep/pkg/jwtx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *jwtx.Issuer

	// Services
	authService         *service.AuthService
	resetService        *service.PasswordResetService
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
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.tokens = &jwtx.Issuer{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.TokenIssuer,
		TTL:    cfg.TokenTTL,
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"driver", app.cfg.DBDriver,
		"version", BuildVersion,
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
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the configured driver and ensures the schema exists.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DBDriver {
	case DriverSurreal:
		db, err = surreal.NewStore(surreal.Config{
			Endpoint:  app.cfg.SurrealEndpoint,
			Namespace: app.cfg.SurrealNamespace,
			Database:  app.cfg.SurrealDatabase,
			Token:     app.cfg.SurrealToken,
		})
	case DriverSQLite:
		db, err = sqlite.NewStore(sqliteDSN(app.cfg.DatabaseFile))
	default:
		err = fmt.Errorf("unknown database driver %q", app.cfg.DBDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	app.logger.Info("database schema ensured", "driver", app.cfg.DBDriver)
	return nil
}

// sqliteDSN builds the file DSN for modernc.org/sqlite, which takes pragmas
// as _pragma=name(value) query parameters rather than bare _name keys.
func sqliteDSN(file string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", file)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		Tokens:     app.tokens,
		LegacySalt: app.cfg.LegacyPasswordSalt,
	}

	app.resetService = &service.PasswordResetService{
		Store:   app.db,
		Tokens:  app.tokens,
		Sender:  &mail.LogSender{Logger: app.logger},
		CodeTTL: app.cfg.ResetCodeTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.resetService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.ResetService = app.resetService
	router.DebugResetCodes = app.cfg.Env == "dev"
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
