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

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pagepicks/lines-api/internal/config"
	"github.com/pagepicks/lines-api/internal/handlers"
	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
	"github.com/pagepicks/lines-api/internal/store"
	"github.com/pagepicks/lines-api/internal/worker"
)

// snapshotStore is written by the refresher and read by the API
type snapshotStore interface {
	worker.SnapshotStore
	handlers.SnapshotReader
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(cfg, logger); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handlers.HealthCheck)

	src, closeSource, err := openSource(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeSource()
	sugar.Infow("Data source ready", "data_source", cfg.DataSource)

	var (
		exclusions handlers.ExclusionStore
		snapshots  snapshotStore
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		if cfg.CacheTTL > 0 {
			src = store.NewCachedSource(src, rdb, cfg.CacheTTL, sugar)
		}
		redisExclusions := store.NewRedisExclusionStore(rdb)
		if err := store.SeedRedisExclusions(ctx, redisExclusions, cfg.ExcludedPlayers); err != nil {
			return fmt.Errorf("seed exclusions: %w", err)
		}
		exclusions = redisExclusions
		snapshots = store.NewRedisSnapshotStore(rdb)
		sugar.Infow("Redis connected", "addr", opts.Addr, "cache_ttl", cfg.CacheTTL)
	} else {
		exclusions = store.NewMemoryExclusionStore(cfg.ExcludedPlayers...)
		snapshots = store.NewMemorySnapshotStore()
		sugar.Warn("No redis_url configured; exclusions and snapshots are kept in memory")
	}

	svc := logic.NewLineAnalysisService(src, logic.AnalysisOptions{Concurrency: cfg.AnalysisConcurrency})
	picks := models.PicksQuery{
		Groups:        logic.DefaultPickGroups(),
		MinHitRate:    cfg.MinHitRate,
		MaxHitRate:    cfg.MaxHitRate,
		MinGames:      cfg.PickMinGames,
		GamesBack:     cfg.DefaultGamesBack,
		ProximityBand: cfg.ProximityBand,
		Limit:         cfg.PickLimit,
		Seasons:       cfg.Seasons,
	}

	h := handlers.New(handlers.Config{
		Lines:            svc,
		Exclusions:       exclusions,
		Snapshots:        snapshots,
		Checks:           checks,
		Logger:           logger,
		DefaultGamesBack: cfg.DefaultGamesBack,
		Seasons:          cfg.Seasons,
		Picks:            picks,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handlers.RequestIDHeader},
		ExposedHeaders:   []string{handlers.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Handle("/metrics", promhttp.Handler())
	h.Routes(r)

	if cfg.RefreshInterval > 0 {
		refresher := worker.NewRefresher(worker.RefresherConfig{
			Service:    svc,
			Exclusions: exclusions,
			Snapshots:  snapshots,
			Query:      picks,
			Interval:   cfg.RefreshInterval,
			Logger:     logger,
		})
		refresher.Start(ctx)
		defer refresher.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Lines API listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	sugar.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openSource connects the configured observation source and registers its
// readiness check
func openSource(ctx context.Context, cfg *config.Config, checks map[string]handlers.HealthCheck) (logic.ObservationSource, func(), error) {
	switch cfg.DataSource {
	case config.SourceSQLite:
		db, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		checks["sqlite"] = db.PingContext
		return store.NewSQLiteSource(db), func() { db.Close() }, nil

	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		checks["postgres"] = pool.Ping
		return store.NewPostgresSource(pool), pool.Close, nil

	case config.SourceClickHouse:
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse clickhouse url: %w", err)
		}
		conn, err := clickhouse.Open(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("ping clickhouse: %w", err)
		}
		checks["clickhouse"] = conn.Ping
		return store.NewClickHouseSource(conn), func() { conn.Close() }, nil
	}

	return store.NewMemorySource(store.DemoDataset()), func() {}, nil
}
