// Package main - entry point for the AI Progress Hub API server.
//
// The server tracks a personal AI-engineering study program: progress
// snapshots, task-completion scoring, daily logs, spaced-repetition
// queries, and derived analytics. Storage is PostgreSQL when a
// DATABASE_URL is configured and JSON files on disk otherwise, so the
// same binary serves both a hosted deployment and a laptop.
//
// The layout follows Clean Architecture:
// - Domain: progress scoring and analytics, no external dependencies
// - Infrastructure: persistence backends, cache, background scheduler
// - Interface: HTTP handlers
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/progress-hub/ai-progress-hub/config"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence"
	rediscache "github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/scheduler"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/scheduler/jobs"
	httpserver "github.com/progress-hub/ai-progress-hub/internal/interface/http"
	"github.com/progress-hub/ai-progress-hub/internal/interface/http/handlers"
	"github.com/progress-hub/ai-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. LOAD CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. SET UP LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting AI Progress Hub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SELECT STORAGE BACKEND
	// ─────────────────────────────────────────────────────────────────────────
	gateway, err := persistence.NewGateway(ctx, persistence.GatewayConfig{
		DatabaseURL:  cfg.Database.URL,
		DataDir:      cfg.Storage.DataDir,
		CacheEnabled: cfg.Redis.Enabled,
		Redis:        redisCacheConfig(cfg),
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		log.Info("closing storage...")
		gateway.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. START BACKGROUND SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(slog.Default())

		cleanupCfg := jobs.DefaultCleanupRepetitionsConfig()
		cleanupCfg.Retention = cfg.Scheduler.CleanupRetention
		cleanupCfg.Timeout = cfg.Scheduler.JobTimeout
		cleanupJob := jobs.NewCleanupRepetitionsJob(gateway, cleanupCfg, slog.Default())

		if err := sched.Register(cleanupJob, scheduler.NewIntervalSchedule(cfg.Scheduler.CleanupInterval)); err != nil {
			return fmt.Errorf("failed to register cleanup job: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler...")
			_ = sched.Stop()
		}()

		log.Info("scheduler started",
			logger.Duration("cleanup_interval", cfg.Scheduler.CleanupInterval),
			logger.Duration("cleanup_retention", cfg.Scheduler.CleanupRetention),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. START HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	if cfg.HTTP.RateLimitEnabled {
		serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimit
	} else {
		serverCfg.RateLimitPerMinute = 0
	}

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		Store:         gateway,
		Logger:        log,
		Features:      cfg.Features,
		HealthChecker: handlers.NewHealthChecker(gateway, cfg.Storage.DataDir, cfg.App.Version),
		Version:       cfg.App.Version,
		Environment:   string(cfg.App.Environment),
		Debug:         cfg.App.Debug,
		APIURL:        fmt.Sprintf("http://%s", serverCfg.Address()),
	})

	errCh := server.StartAsync()
	log.Info("AI Progress Hub API is running",
		logger.String("address", server.Address()),
		logger.StorageMode(gateway.Mode()),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger builds the application logger and mirrors its level into
// slog for components logging through the standard library.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.AddCaller = cfg.Observability.AddCaller

	slogOpts := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, slogOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, slogOpts)
	}
	slog.SetDefault(slog.New(handler))

	return logger.New(opts)
}

func slogLevel(level logger.Level) slog.Level {
	switch level {
	case logger.LevelDebug:
		return slog.LevelDebug
	case logger.LevelWarn:
		return slog.LevelWarn
	case logger.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redisCacheConfig(cfg *config.Config) rediscache.Config {
	rc := rediscache.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout
	return rc
}
