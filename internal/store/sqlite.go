package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

const sqliteSchema = `
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
	game_date DATETIME NOT NULL,
	home_team TEXT NOT NULL,
	away_team TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS player_game_stats (
	player_id TEXT NOT NULL,
	game_id TEXT NOT NULL,
	passing_yards REAL,
	rushing_yards REAL,
	receiving_yards REAL,
	receptions REAL,
	passing_tds REAL,
	rushing_tds REAL,
	receiving_tds REAL,
	interceptions REAL,
	fumbles REAL,
	PRIMARY KEY (player_id, game_id)
);

CREATE INDEX IF NOT EXISTS idx_games_date ON games (game_date);
`

// OpenSQLite opens (creating if needed) a SQLite database file and applies the schema
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return db, nil
}

// SQLiteSource reads observations from a SQLite database
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

func (s *SQLiteSource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	query, args := BuildPlayerQuery(DialectSQLite, id)
	var p models.Player
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Position, &p.Team)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, logic.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteSource) GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error) {
	query, args, err := BuildRecentObservationsQuery(DialectSQLite, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()
	return scanObservations(rows, q.PlayerID)
}

func (s *SQLiteSource) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	query, args := BuildPlayersQuery(DialectSQLite, f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// LoadSQLite replaces the database contents with ds in one transaction
func LoadSQLite(ctx context.Context, db *sql.DB, ds Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"player_game_stats", "games", "players"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range ds.Players {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO players (player_id, full_name, position, team) VALUES (?, ?, ?, ?)",
			p.ID, p.Name, p.Position, p.Team); err != nil {
			return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
		}
	}
	for _, g := range ds.Games {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO games (game_id, season, week, game_date, home_team, away_team) VALUES (?, ?, ?, ?, ?, ?)",
			g.ID, g.Season, g.Week, g.GameDate.UTC(), g.HomeTeam, g.AwayTeam); err != nil {
			return fmt.Errorf("failed to insert game %s: %w", g.ID, err)
		}
	}
	for _, l := range ds.Stats {
		if _, err := tx.ExecContext(ctx, insertStatLineSQL(DialectSQLite), statLineArgs(l)...); err != nil {
			return fmt.Errorf("failed to insert stats %s/%s: %w", l.PlayerID, l.GameID, err)
		}
	}
	return tx.Commit()
}

func insertStatLineSQL(d Dialect) string {
	a := &args{d: d}
	ph := make([]interface{}, 11)
	for i := range ph {
		ph[i] = a.add(nil)
	}
	return fmt.Sprintf(`INSERT INTO player_game_stats (player_id, game_id, passing_yards, rushing_yards,
		receiving_yards, receptions, passing_tds, rushing_tds, receiving_tds, interceptions, fumbles)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`, ph...)
}

func statLineArgs(l models.StatLine) []interface{} {
	return []interface{}{
		l.PlayerID, l.GameID,
		l.PassingYards, l.RushingYards, l.ReceivingYards, l.Receptions,
		l.PassingTDs, l.RushingTDs, l.ReceivingTDs, l.Interceptions, l.Fumbles,
	}
}
