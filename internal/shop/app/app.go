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

	httpapi "github.com/vphone/simshop/internal/shop/http"
	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/internal/shop/store"
	"github.com/vphone/simshop/internal/shop/store/drivers/sqlite"
	"github.com/vphone/simshop/pkg/cryptox"
	"github.com/vphone/simshop/pkg/pingsdk"
	"github.com/vphone/simshop/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the shop service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	provider *pingsdk.Client

	// Services
	catalogService      *service.CatalogService
	orderService        *service.OrderService
	wizardService       *service.WizardService
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
			Service: "shop-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Payment details are sealed with the master key before they touch the
	// database.
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		app.logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	if !cfg.HasProviderCredentials() && !cfg.ProviderOptional {
		return nil, errors.New(
			"missing provider credentials: set PING_ENVIRONMENT_ID, PING_CLIENT_ID, PING_CLIENT_SECRET and PING_WALLET_APP_ID (or SHOP_PROVIDER_OPTIONAL=true)",
		)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initProvider()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("shop service starting", "port", app.cfg.Port, "version", BuildVersion)

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

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down shop service...")

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

	// Stop the housekeeping service and any running verification pollers
	app.housekeepingService.Stop()
	app.wizardService.Close()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("shop service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initProvider builds the identity provider client from config
func (app *Application) initProvider() {
	app.provider = pingsdk.NewClient(pingsdk.Config{
		AuthBaseURL:         app.cfg.ProviderAuthBaseURL,
		APIBaseURL:          app.cfg.ProviderAPIBaseURL,
		EnvironmentID:       app.cfg.EnvironmentID,
		ClientID:            app.cfg.ClientID,
		ClientSecret:        app.cfg.ClientSecret,
		WalletApplicationID: app.cfg.WalletApplicationID,
		CredentialType:      app.cfg.CredentialType,
		RequestBankDetails:  app.cfg.WalletBankDetails,
	})

	if !app.cfg.HasProviderCredentials() {
		app.logger.Warn("provider credentials missing - verification checkouts will fail")
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.catalogService = service.NewCatalogService()
	app.orderService = service.NewOrderService(app.db, app.logger)

	app.wizardService = service.NewWizardService(
		app.catalogService,
		app.provider,
		app.orderService,
		app.db,
		app.logger,
		service.WizardConfig{
			PollerOptions: service.PollerOptions{
				Interval:      app.cfg.PollInterval,
				MaxFailures:   app.cfg.MaxPollFailures,
				SafetyTimeout: app.cfg.SafetyTimeout,
			},
			WalletBankDetails: app.cfg.WalletBankDetails,
			SessionTTL:        app.cfg.SessionTTL,
		},
	)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.wizardService,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AuditRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.CatalogService = app.catalogService
	router.WizardService = app.wizardService
	router.OrderService = app.orderService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
