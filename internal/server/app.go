// Package server initializes and runs the NoVerif backend: database and
// migrations, services, the HTTP API, the session monitor, and the billing
// scheduler, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/noverif/noverif/internal/logging"
	"github.com/noverif/noverif/internal/server/config"
	"github.com/noverif/noverif/internal/server/httpapi"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
	"github.com/noverif/noverif/internal/server/scheduler"
	"github.com/noverif/noverif/internal/server/services"
	"github.com/noverif/noverif/internal/server/session"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	server    *httpapi.Server
	monitor   *session.Monitor
	scheduler *scheduler.Scheduler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := services.NewUserService(db, m, cfg)
	applicationService := services.NewApplicationService(db, m)
	walletService := services.NewWalletService(db, m)
	transactionService := services.NewTransactionService(db, m)
	invoiceService := services.NewInvoiceService(db, m, cfg)
	notificationService := services.NewNotificationService(db, m)

	srv := httpapi.NewServer(cfg, logger, db, m,
		userService, applicationService, walletService,
		transactionService, invoiceService, notificationService)

	monitor := session.NewMonitor(db, m, []session.Profile{
		{Role: models.RoleUser, Timeout: cfg.UserSessionTimeout, PollInterval: cfg.UserSessionPollInterval},
		{Role: models.RoleAdmin, Timeout: cfg.AdminSessionTimeout, PollInterval: cfg.AdminSessionPollInterval},
	}, logger)

	return &App{
		config:    cfg,
		logger:    logger,
		db:        db,
		server:    srv,
		monitor:   monitor,
		scheduler: scheduler.New(invoiceService, logger),
	}, nil
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

	app.monitor.Start(ctx)

	if err := app.scheduler.Start(); err != nil {
		app.logger.Error(ctx, "scheduler start failed", "error", err)
		return
	}

	httpServer := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.server.Router(),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()
	app.logger.Info(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "http shutdown error", "error", err)
	}

	app.scheduler.Stop()
	app.monitor.Wait()
	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "app stopped")
}
