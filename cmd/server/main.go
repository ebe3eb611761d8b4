package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/cache/noop"
	rediscache "stockdesk/internal/cache/redis"
	"stockdesk/internal/config"
	"stockdesk/internal/handler"
	"stockdesk/internal/logger"
	"stockdesk/internal/middleware"
	"stockdesk/internal/port"
	"stockdesk/internal/report"
	"stockdesk/internal/router"
	"stockdesk/internal/service"
	s3storage "stockdesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Upstream inventory API
	api := apiclient.New(cfg.API, zl)
	checks := map[string]handler.Check{"api": api.Ping}

	// Options cache
	var cache port.Cache = noop.NewCache()
	if cfg.Redis.Addr != "" {
		rc, err := rediscache.NewCache(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = rc.Close() }()
		cache = rc
		checks["redis"] = rc.Ping
	}

	// Export archive storage
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var rateLimiter *limiter.Limiter
	if cfg.RateLimit.Enabled {
		rateLimiter, err = middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return fmt.Errorf("failed to build rate limiter: %w", err)
		}
	}

	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Initialize services
	reportSvc := service.NewReportService(report.DefaultCatalog(), api)
	exportSvc := service.NewExportService(reportSvc, storage, zl)
	adjustmentSvc := service.NewAdjustmentService(api, zl)
	optionsSvc := service.NewOptionsService(api, cache, cfg.Options, zl)

	// Initialize handlers
	reportH := handler.NewReportHandler(reportSvc, exportSvc, zl)
	adjustmentH := handler.NewAdjustmentHandler(adjustmentSvc, optionsSvc, zl)
	healthH := handler.NewHealthHandler(checks)

	// Setup router
	r := router.Setup(cfg, zl, rateLimiter, reportH, adjustmentH, healthH)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("api", cfg.API.BaseURL),
			zap.Bool("archive", storage != nil),
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
