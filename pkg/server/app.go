package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "Voxmill/internal/domain/repository"
	mid "Voxmill/internal/middleware"
	"Voxmill/internal/usecase"
	pkgch "Voxmill/pkg/clickhouse"
	"Voxmill/pkg/config"
	xhttp "Voxmill/pkg/http"
	applogger "Voxmill/pkg/logger"
	"Voxmill/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    xhttp.Handler
	chClient   *pkgch.Client
	publisher  domrepo.AlertPublisher
	pipeline   *mid.AlertPipeline
	scanQueue  *queue.RedisQueue
	scheduler  *usecase.ScanScheduler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher domrepo.AlertPublisher,
	pipeline *mid.AlertPipeline,
	scanQueue *queue.RedisQueue,
	scheduler *usecase.ScanScheduler,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handler:   handler,
		chClient:  chClient,
		publisher: publisher,
		pipeline:  pipeline,
		scanQueue: scanQueue,
		scheduler: scheduler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.l, time.Second),
	)

	// Start alert delivery pipeline
	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		a.l.Info("alert pipeline started")
	}

	// Start scan queue and scheduler if configured
	if a.scanQueue != nil {
		if err := a.scanQueue.Start(); err != nil {
			a.l.Error("scan queue start error", applogger.Error(err))
			return err
		}
		a.l.Info("scan queue started")
	}
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
		a.l.Info("scan scheduler started",
			applogger.Strings("areas", a.cfg.Intelligence.Areas))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.scanQueue != nil {
		if err := a.scanQueue.Stop(ctx); err != nil {
			a.l.Warn("scan queue stop error", applogger.Error(err))
		}
	}
	if a.pipeline != nil {
		a.pipeline.Stop()
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("alert publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
