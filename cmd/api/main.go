// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

// Command api is the entry point for the Patrika ePaper API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect to object storage and build the ingestion pipeline.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrikahq/patrika/internal/api"
	"github.com/patrikahq/patrika/internal/catalog"
	"github.com/patrikahq/patrika/internal/epaper/clip"
	"github.com/patrikahq/patrika/internal/epaper/issue"
	"github.com/patrikahq/patrika/internal/pipeline/encode"
	"github.com/patrikahq/patrika/internal/pipeline/rasterize"
	"github.com/patrikahq/patrika/internal/platform/config"
	"github.com/patrikahq/patrika/internal/platform/constants"
	"github.com/patrikahq/patrika/internal/platform/migration"
	pgstore "github.com/patrikahq/patrika/internal/platform/postgres"
	redisstore "github.com/patrikahq/patrika/internal/platform/redis"
	"github.com/patrikahq/patrika/internal/platform/sec"
	"github.com/patrikahq/patrika/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "patrika"))
	slog.SetDefault(log)

	log.Info("[Patrika] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "patrika"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// App context lives for the whole process and is cancelled on shutdown.
	// Long-running background routines (rate-limit cleanup) hang off it.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Object Storage & Pipeline ──────────────────────────────────────
	objects, err := storage.NewS3Store(startupCtx, storage.S3Options{
		Bucket:        cfg.StorageBucket,
		Region:        cfg.StorageRegion,
		Endpoint:      cfg.StorageEndpoint,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		PublicBaseURL: cfg.StoragePublicBaseURL,
	}, log)
	must(log, err, "connect to object storage")

	intake := issue.NewIntake(cfg.Pipeline.MaxPDFBytes)
	rasterizer := rasterize.New(rasterize.Options{
		Binary:   cfg.Pipeline.RasterizerBinary,
		DPI:      cfg.Pipeline.RasterDPI,
		MaxPages: cfg.Pipeline.RasterMaxPages,
	}, log)
	encoder := encode.New(encode.Options{
		DeliveryQuality: cfg.Pipeline.DeliveryQuality,
		PreviewQuality:  cfg.Pipeline.PreviewQuality,
		PreviewWidth:    cfg.Pipeline.PreviewWidth,
		PreviewHeight:   cfg.Pipeline.PreviewHeight,
	})

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	catalogRepository := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepository, log)
	catalogHandler := catalog.NewHandler(catalogService)

	issueRepository := issue.NewRepository(pool)
	issueCache := issue.NewCache(rdb, log)
	issueService := issue.NewService(issue.ServiceOptions{
		Repository:    issueRepository,
		Cache:         issueCache,
		Catalog:       catalogService,
		Objects:       objects,
		Intake:        intake,
		Rasterizer:    rasterizer,
		Encoder:       encoder,
		Keys:          issue.NewKeyBuilder(cfg.StorageKeyRoot),
		UploadWorkers: cfg.Pipeline.UploadWorkers,
	}, log)
	issueHandler := issue.NewHandler(issueService, cfg.Pipeline.MaxPDFBytes)

	clipRepository := clip.NewRepository(pool)
	clipService := clip.NewService(clipRepository, issueService, log)
	clipHandler := clip.NewHandler(clipService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalogHandler,
		Issue:     issueHandler,
		Clip:      clipHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
