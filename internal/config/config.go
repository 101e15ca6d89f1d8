package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var ErrInvalidConfig = errors.New("invalid config")

// Data sources
const (
	SourceMemory     = "memory"
	SourceSQLite     = "sqlite"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
)

type Config struct {
	// Server
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// CORS
	AllowedOrigins []string `koanf:"allowed_origins"`

	// Data source selection and URLs
	DataSource    string `koanf:"data_source"`
	SQLitePath    string `koanf:"sqlite_path"`
	PostgresURL   string `koanf:"postgres_url"`
	ClickHouseURL string `koanf:"clickhouse_url"`

	// Redis backs the observation cache, exclusions and pick snapshots. Optional.
	RedisURL string        `koanf:"redis_url"`
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Analysis
	AnalysisConcurrency int   `koanf:"analysis_concurrency"`
	DefaultGamesBack    int   `koanf:"default_games_back"`
	Seasons             []int `koanf:"seasons"`

	// Realistic picks
	MinHitRate    float64 `koanf:"min_hit_rate"`
	MaxHitRate    float64 `koanf:"max_hit_rate"`
	ProximityBand float64 `koanf:"proximity_band"`
	PickMinGames  int     `koanf:"pick_min_games"`
	PickLimit     int     `koanf:"pick_limit"`

	// RefreshInterval of the background picks refresher; zero disables it
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// ExcludedPlayers are always excluded for the manual reason
	ExcludedPlayers []string `koanf:"excluded_players"`
}

// listKeys are the slice fields that may be set from a single env var
var listKeys = map[string]bool{
	"allowed_origins":  true,
	"excluded_players": true,
	"seasons":          true,
}

// MaxGamesBack caps every analysis window
const MaxGamesBack = 100

func defaults() Config {
	return Config{
		Port:                8080,
		Env:                 "development",
		DataSource:          SourceMemory,
		SQLitePath:          "lines.db",
		CacheTTL:            5 * time.Minute,
		AnalysisConcurrency: 8,
		DefaultGamesBack:    20,
		MinHitRate:          70,
		MaxHitRate:          90,
		ProximityBand:       0.25,
		PickMinGames:        5,
		PickLimit:           100,
		RefreshInterval:     15 * time.Minute,
	}
}

// Load builds a Config by layering defaults, an optional YAML file named by
// LINES_CONFIG, and LINES_* environment variables (highest precedence).
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("LINES_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// LINES_POSTGRES_URL -> postgres_url; list keys take comma-separated values
	envProvider := env.ProviderWithValue("LINES_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, "LINES_"))
		if listKeys[key] {
			return key, trimAll(strings.Split(value, ","))
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.ExcludedPlayers = trimAll(cfg.ExcludedPlayers)
	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and that the selected data source is reachable by URL or path
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return invalid("port must be in 1-65535, got %d", c.Port)
	}

	switch c.DataSource {
	case SourceMemory:
	case SourceSQLite:
		if c.SQLitePath == "" {
			return invalid("sqlite_path is required for the sqlite data source")
		}
	case SourcePostgres:
		if c.PostgresURL == "" {
			return invalid("postgres_url is required for the postgres data source")
		}
	case SourceClickHouse:
		if c.ClickHouseURL == "" {
			return invalid("clickhouse_url is required for the clickhouse data source")
		}
	default:
		return invalid("unknown data_source %q", c.DataSource)
	}

	if c.AnalysisConcurrency < 1 {
		return invalid("analysis_concurrency must be at least 1")
	}
	if c.DefaultGamesBack < 1 || c.DefaultGamesBack > MaxGamesBack {
		return invalid("default_games_back must be in 1-%d, got %d", MaxGamesBack, c.DefaultGamesBack)
	}
	if c.MinHitRate < 0 || c.MaxHitRate > 100 || c.MinHitRate > c.MaxHitRate {
		return invalid("hit rate band must satisfy 0 <= min_hit_rate <= max_hit_rate <= 100")
	}
	if c.ProximityBand <= 0 {
		return invalid("proximity_band must be positive")
	}
	if c.PickMinGames < 1 || c.PickLimit < 1 {
		return invalid("pick_min_games and pick_limit must be at least 1")
	}
	if c.CacheTTL < 0 || c.RefreshInterval < 0 {
		return invalid("durations must not be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
