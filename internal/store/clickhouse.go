package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

var clickhouseSchema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		player_id String,
		full_name String,
		position LowCardinality(String),
		team LowCardinality(String)
	) ENGINE = MergeTree ORDER BY player_id`,
	`CREATE TABLE IF NOT EXISTS games (
		game_id String,
		season UInt16,
		week UInt8,
		game_date DateTime('UTC'),
		home_team LowCardinality(String),
		away_team LowCardinality(String)
	) ENGINE = MergeTree ORDER BY game_id`,
	`CREATE TABLE IF NOT EXISTS player_game_stats (
		player_id String,
		game_id String,
		passing_yards Nullable(Float64),
		rushing_yards Nullable(Float64),
		receiving_yards Nullable(Float64),
		receptions Nullable(Float64),
		passing_tds Nullable(Float64),
		rushing_tds Nullable(Float64),
		receiving_tds Nullable(Float64),
		interceptions Nullable(Float64),
		fumbles Nullable(Float64)
	) ENGINE = MergeTree ORDER BY (player_id, game_id)`,
}

// ClickHouseSource reads observations from ClickHouse
type ClickHouseSource struct {
	ch driver.Conn
}

func NewClickHouseSource(ch driver.Conn) *ClickHouseSource {
	return &ClickHouseSource{ch: ch}
}

func (s *ClickHouseSource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	query, args := BuildPlayerQuery(DialectClickHouse, id)
	var p models.Player
	err := s.ch.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Position, &p.Team)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, logic.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *ClickHouseSource) GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error) {
	query, args, err := BuildRecentObservationsQuery(DialectClickHouse, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()
	return scanObservations(rows, q.PlayerID)
}

func (s *ClickHouseSource) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	query, args := BuildPlayersQuery(DialectClickHouse, f)
	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// MigrateClickHouse creates the tables if they do not exist
func MigrateClickHouse(ctx context.Context, ch driver.Conn) error {
	for _, stmt := range clickhouseSchema {
		if err := ch.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply clickhouse schema: %w", err)
		}
	}
	return nil
}

// LoadClickHouse replaces the table contents with ds
func LoadClickHouse(ctx context.Context, ch driver.Conn, ds Dataset) error {
	for _, table := range []string{"player_game_stats", "games", "players"} {
		if err := ch.Exec(ctx, "TRUNCATE TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	batch, err := ch.PrepareBatch(ctx, "INSERT INTO players (player_id, full_name, position, team)")
	if err != nil {
		return err
	}
	for _, p := range ds.Players {
		if err := batch.Append(p.ID, p.Name, p.Position, p.Team); err != nil {
			return fmt.Errorf("failed to append player %s: %w", p.ID, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send players: %w", err)
	}

	batch, err = ch.PrepareBatch(ctx, "INSERT INTO games (game_id, season, week, game_date, home_team, away_team)")
	if err != nil {
		return err
	}
	for _, g := range ds.Games {
		if err := batch.Append(g.ID, uint16(g.Season), uint8(g.Week), g.GameDate, g.HomeTeam, g.AwayTeam); err != nil {
			return fmt.Errorf("failed to append game %s: %w", g.ID, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send games: %w", err)
	}

	batch, err = ch.PrepareBatch(ctx, `INSERT INTO player_game_stats (player_id, game_id, passing_yards,
		rushing_yards, receiving_yards, receptions, passing_tds, rushing_tds, receiving_tds, interceptions, fumbles)`)
	if err != nil {
		return err
	}
	for _, l := range ds.Stats {
		if err := batch.Append(statLineArgs(l)...); err != nil {
			return fmt.Errorf("failed to append stats %s/%s: %w", l.PlayerID, l.GameID, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send stats: %w", err)
	}
	return nil
}
