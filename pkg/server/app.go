package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domainrepo "AlertHub/internal/domain/repository"
	"AlertHub/internal/scheduler"
	pkgch "AlertHub/pkg/clickhouse"
	"AlertHub/pkg/config"
	xhttp "AlertHub/pkg/http"
	applogger "AlertHub/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	store      domainrepo.AlertStore
	publisher  domainrepo.TriggerPublisher
	chClient   *pkgch.Client
	sched      *scheduler.Scheduler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. The publisher and
// ClickHouse client are optional and may be nil.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	store domainrepo.AlertStore,
	publisher domainrepo.TriggerPublisher,
	chClient *pkgch.Client,
	sched *scheduler.Scheduler,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		publisher:  publisher,
		chClient:   chClient,
		sched:      sched,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.sched.Register(a.cfg.Jobs.CheckCron, a.cfg.Jobs.CleanupCron); err != nil {
		return err
	}
	a.sched.Start()

	if a.cfg.Jobs.RunOnStart {
		go a.sched.RunCheckNow()
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	a.logger.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
