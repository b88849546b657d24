// Package main is the entry point for the bizdesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"bizdesk/internal/app"
	"bizdesk/internal/core/calendar"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/infrastructure/cache"
	v1 "bizdesk/internal/infrastructure/http/v1"
	"bizdesk/internal/infrastructure/http/v1/handlers"
	"bizdesk/internal/infrastructure/storage/memory"
	"bizdesk/internal/infrastructure/storage/postgres"
	"bizdesk/pkg/config"
	"bizdesk/pkg/logger"
)

var startedAt = time.Now()

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting bizdesk server", "env", cfg.Env)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid day boundary zone", "error", err)
	}
	policy, err := inventory.ParseUnderflowPolicy(cfg.UnderflowPolicy)
	if err != nil {
		log.Fatalw("invalid underflow policy", "error", err)
	}

	checks := map[string]handlers.Checker{}
	opts := app.Options{
		Policy:      policy,
		Calendar:    calendar.In(loc),
		PhoneRegion: cfg.PhoneRegion,
	}

	// --- Storage ---
	var (
		repos  app.Repositories
		dbPool *postgres.Pool
	)
	storage := "memory"
	if cfg.DatabaseURL != "" {
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		poolCfg.MaxConns = cfg.DBMaxConns
		poolCfg.MinConns = cfg.DBMinConns

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		dbPool = pool

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatalw("failed to apply migrations", "error", err)
			}
		}

		repos = app.PostgresRepositories(postgres.NewTxManager(pool))
		checks["database"] = pool
		storage = "postgres"
		log.Infow("database connection established",
			"max_conns", poolCfg.MaxConns,
			"min_conns", poolCfg.MinConns,
		)
	} else {
		repos = app.MemoryRepositories(memory.NewStore())
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	// --- Dashboard cache ---
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer client.Close()

		opts.Cache = cache.NewDashboardCache(client, cfg.DashboardCacheTTL)
		opts.Locker = cache.NewLocker(client)
		checks["redis"] = handlers.CheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Infow("redis dashboard cache enabled", "ttl", cfg.DashboardCacheTTL)
	} else {
		opts.Cache = cache.NewLocalCache(cfg.DashboardCacheTTL)
	}

	svc := app.NewServices(repos, opts)

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		Inventory:    svc.Inventory,
		Sales:        svc.Sales,
		Customers:    svc.Customers,
		Finance:      svc.Finance,
		Production:   svc.Production,
		Dashboard:    svc.Dashboard,
		Suppliers:    svc.Suppliers,
		Journal:      svc.Journal,
		HealthChecks: checks,
		HealthInfo: func() map[string]any {
			info := map[string]any{
				"env":              cfg.Env,
				"storage":          storage,
				"day_boundary_tz":  cfg.DayBoundaryTZ,
				"underflow_policy": string(policy),
				"uptime":           time.Since(startedAt).Round(time.Second).String(),
			}
			if dbPool != nil {
				info["database_pool"] = dbPool.Stats()
			}
			return info
		},
		CORSOrigins: cfg.CORSAllowedOrigins,
		Logger:      log,
		Debug:       cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port, "storage", storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	if dbPool != nil {
		dbPool.LogStats(ctx)
	}

	log.Info("server stopped")
}
