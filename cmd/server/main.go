package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/dashbored/internal/config"
	"github.com/JonMunkholm/dashbored/internal/core"
	"github.com/JonMunkholm/dashbored/internal/history"
	"github.com/JonMunkholm/dashbored/internal/logging"
	"github.com/JonMunkholm/dashbored/internal/metrics"
	"github.com/JonMunkholm/dashbored/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_root", cfg.Data.Root,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"database", cfg.Database.Enabled(),
	)

	ctx := context.Background()
	uploads, closeHistory, err := history.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open upload history", "error", err)
		os.Exit(1)
	}
	defer closeHistory()

	// The limiter gauges read the service, which reports to the collectors,
	// so the service is bound after both exist.
	var service *core.Service
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(func() core.UploadLimiterStatus { return service.UploadLimiterStatus() })
	}

	service = core.NewService(core.ServiceConfig{
		DataRoot:             cfg.Data.Root,
		MaxUploadSize:        cfg.Upload.MaxFileSize,
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		UploadWait:           cfg.Upload.MaxWaitTime,
	}, uploads, observer(m))
	if err := service.Init(); err != nil {
		slog.Error("failed to create data directories", "error", err)
		os.Exit(1)
	}

	datasets, err := service.Datasets(ctx)
	if err != nil {
		slog.Warn("failed to list datasets", "error", err)
	}
	slog.Info("datasets available", "count", len(datasets))

	server := web.NewServer(cfg, service, m)

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	case <-sigCtx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := service.UploadLimiterStatus(); status.Active > 0 {
		slog.Info("waiting for uploads to complete", "active", status.Active)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}

// observer avoids handing core a typed-nil *metrics.Metrics.
func observer(m *metrics.Metrics) core.Observer {
	if m == nil {
		return nil
	}
	return m
}
