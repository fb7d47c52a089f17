// Package server initializes and runs the everid backend: it opens the
// database, applies migrations, wires the service layer to the ledger
// gateway, and serves the HTTP API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everscaleid/backend/internal/logging"
	"github.com/everscaleid/backend/internal/server/config"
	httpx "github.com/everscaleid/backend/internal/server/http"
	"github.com/everscaleid/backend/internal/server/ledger"
	"github.com/everscaleid/backend/internal/server/repositories/repomanager"
	"github.com/everscaleid/backend/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpx.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	gateway := ledger.NewHTTPGateway(cfg.LedgerEndpoints, cfg.DIDRegistryAddress, logger)

	authService := services.NewAuthService(db, rm, gateway, cfg, logger)
	credentialService := services.NewCredentialService(db, rm, gateway, cfg, logger)
	catalogService := services.NewCatalogService(db, rm)
	attachmentService := services.NewAttachmentService(db, rm, cfg)

	server := httpx.NewServer(cfg.EndpointAddrHTTP,
		authService, credentialService, catalogService, attachmentService, logger)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	go func() {
		if err := app.server.Run(); err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	app.logger.Info(shutdownCtx, "app stopped")
}
