// Command server starts the airwatch HTTP API and websocket feed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hacknova/airwatch/internal/broadcast"
	"github.com/hacknova/airwatch/internal/config"
	"github.com/hacknova/airwatch/internal/migrate"
	"github.com/hacknova/airwatch/internal/repository/postgres"
	httpserver "github.com/hacknova/airwatch/internal/server/http"
	"github.com/hacknova/airwatch/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, makes a single attempt at the store, and starts
// the HTTP server. Storage being down does not stop startup: the ingest path
// keeps alerting and broadcasting without it.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Single attempt at the store; failure is logged, not fatal.
	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Error("migrate up (continuing without verified storage)", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Pool.Ping(pingCtx); err != nil {
		logger.Error("store unreachable (ingest stays best-effort)", zap.Error(err))
	}
	cancel()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	sensorRepo := postgres.NewSensorRepo(db)
	readingRepo := postgres.NewReadingRepo(db)
	reportRepo := postgres.NewReportRepo(db)

	// Push channel
	hub := broadcast.NewHub(logger)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	telemetrySvc := service.NewTelemetryService(readingRepo, sensorRepo, hub, logger)
	reportSvc := service.NewReportService(reportRepo, hub)

	srv := httpserver.New(authSvc, telemetrySvc, reportSvc, hub, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
