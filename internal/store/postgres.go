package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
	player_id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	position TEXT NOT NULL,
	team TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	season INTEGER NOT NULL,
	week INTEGER NOT NULL,
	game_date TIMESTAMPTZ NOT NULL,
	home_team TEXT NOT NULL,
	away_team TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS player_game_stats (
	player_id TEXT NOT NULL REFERENCES players (player_id),
	game_id TEXT NOT NULL REFERENCES games (game_id),
	passing_yards DOUBLE PRECISION,
	rushing_yards DOUBLE PRECISION,
	receiving_yards DOUBLE PRECISION,
	receptions DOUBLE PRECISION,
	passing_tds DOUBLE PRECISION,
	rushing_tds DOUBLE PRECISION,
	receiving_tds DOUBLE PRECISION,
	interceptions DOUBLE PRECISION,
	fumbles DOUBLE PRECISION,
	PRIMARY KEY (player_id, game_id)
);

CREATE INDEX IF NOT EXISTS idx_games_date ON games (game_date DESC);
`

// PostgresSource reads observations from PostgreSQL
type PostgresSource struct {
	pg PgPool
}

func NewPostgresSource(pg PgPool) *PostgresSource {
	return &PostgresSource{pg: pg}
}

func (s *PostgresSource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	query, args := BuildPlayerQuery(DialectPostgres, id)
	var p models.Player
	err := s.pg.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Position, &p.Team)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, logic.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresSource) GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error) {
	query, args, err := BuildRecentObservationsQuery(DialectPostgres, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()
	return scanObservations(rows, q.PlayerID)
}

func (s *PostgresSource) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	query, args := BuildPlayersQuery(DialectPostgres, f)
	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// MigratePostgres creates the tables if they do not exist
func MigratePostgres(ctx context.Context, pg PgPool) error {
	if _, err := pg.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply postgres schema: %w", err)
	}
	return nil
}

// LoadPostgres upserts ds into PostgreSQL
func LoadPostgres(ctx context.Context, pg PgPool, ds Dataset) error {
	for _, p := range ds.Players {
		if _, err := pg.Exec(ctx, `
			INSERT INTO players (player_id, full_name, position, team) VALUES ($1, $2, $3, $4)
			ON CONFLICT (player_id) DO UPDATE SET full_name = EXCLUDED.full_name,
				position = EXCLUDED.position, team = EXCLUDED.team`,
			p.ID, p.Name, p.Position, p.Team); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	for _, g := range ds.Games {
		if _, err := pg.Exec(ctx, `
			INSERT INTO games (game_id, season, week, game_date, home_team, away_team) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_id) DO NOTHING`,
			g.ID, g.Season, g.Week, g.GameDate, g.HomeTeam, g.AwayTeam); err != nil {
			return fmt.Errorf("failed to upsert game %s: %w", g.ID, err)
		}
	}
	upsert := insertStatLineSQL(DialectPostgres) + " ON CONFLICT (player_id, game_id) DO NOTHING"
	for _, l := range ds.Stats {
		if _, err := pg.Exec(ctx, upsert, statLineArgs(l)...); err != nil {
			return fmt.Errorf("failed to upsert stats %s/%s: %w", l.PlayerID, l.GameID, err)
		}
	}
	return nil
}
