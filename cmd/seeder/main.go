package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pagepicks/lines-api/internal/config"
	"github.com/pagepicks/lines-api/internal/store"
)

// Seeder creates the schema of the configured data source and loads the demo
// season into it. Connection settings come from the same LINES_* environment
// as the API.
func main() {
	source := flag.String("source", "", "override data_source (sqlite, postgres, clickhouse)")
	exclusions := flag.Bool("exclusions", true, "seed configured excluded_players into redis")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall seeding timeout")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *source != "" {
		os.Setenv("LINES_DATA_SOURCE", *source)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("Failed to load config", "error", err)
	}

	if err := run(cfg, log, *exclusions, *timeout); err != nil {
		log.Fatalw("Seeding failed", "data_source", cfg.DataSource, "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger, exclusions bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ds := store.DemoDataset()
	start := time.Now()
	if err := seed(ctx, cfg, ds); err != nil {
		return err
	}
	log.Infow("Demo data loaded",
		"data_source", cfg.DataSource,
		"players", len(ds.Players),
		"games", len(ds.Games),
		"stat_lines", len(ds.Stats),
		"duration", time.Since(start),
	)

	if !exclusions || cfg.RedisURL == "" || len(cfg.ExcludedPlayers) == 0 {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()
	if err := store.SeedRedisExclusions(ctx, store.NewRedisExclusionStore(rdb), cfg.ExcludedPlayers); err != nil {
		return fmt.Errorf("seed exclusions: %w", err)
	}
	log.Infow("Exclusions seeded", "players", cfg.ExcludedPlayers)
	return nil
}

func seed(ctx context.Context, cfg *config.Config, ds store.Dataset) error {
	switch cfg.DataSource {
	case config.SourceSQLite:
		db, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		return store.LoadSQLite(ctx, db, ds)

	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := store.MigratePostgres(ctx, pool); err != nil {
			return err
		}
		return store.LoadPostgres(ctx, pool, ds)

	case config.SourceClickHouse:
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return fmt.Errorf("parse clickhouse url: %w", err)
		}
		conn, err := clickhouse.Open(opts)
		if err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		defer conn.Close()
		if err := store.MigrateClickHouse(ctx, conn); err != nil {
			return err
		}
		return store.LoadClickHouse(ctx, conn, ds)
	}
	return fmt.Errorf("data source %q has nothing to seed; the memory source always serves the demo data", cfg.DataSource)
}
