package store

import (
	"fmt"
	"strings"

	"github.com/pagepicks/lines-api/internal/models"
)

// Dialect selects placeholder and cast syntax for the SQL stores
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
	DialectClickHouse
)

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) toFloat(expr string) string {
	switch d {
	case DialectPostgres:
		return fmt.Sprintf("CAST(%s AS DOUBLE PRECISION)", expr)
	case DialectClickHouse:
		return fmt.Sprintf("toFloat64(assumeNotNull(%s))", expr)
	}
	return fmt.Sprintf("CAST(%s AS REAL)", expr)
}

func (d Dialect) toInt(expr string) string {
	switch d {
	case DialectPostgres:
		return fmt.Sprintf("CAST(%s AS BIGINT)", expr)
	case DialectClickHouse:
		return fmt.Sprintf("toInt64(%s)", expr)
	}
	return expr
}

// args collects positional arguments and hands out placeholders
type args struct {
	d    Dialect
	vals []interface{}
}

func (a *args) add(v interface{}) string {
	a.vals = append(a.vals, v)
	return a.d.placeholder(len(a.vals))
}

// statColumn maps a selector to its value expression and presence condition
// over the player_game_stats table (alias pgs)
func statColumn(stat models.StatSelector) (expr, cond string, err error) {
	switch stat {
	case models.StatPassingYards:
		return "pgs.passing_yards", "pgs.passing_yards IS NOT NULL", nil
	case models.StatRushingYards:
		return "pgs.rushing_yards", "pgs.rushing_yards IS NOT NULL", nil
	case models.StatReceivingYards:
		return "pgs.receiving_yards", "pgs.receiving_yards IS NOT NULL", nil
	case models.StatReceptions:
		return "pgs.receptions", "pgs.receptions IS NOT NULL", nil
	case models.StatInterceptions:
		return "pgs.interceptions", "pgs.interceptions IS NOT NULL", nil
	case models.StatFumbles:
		return "pgs.fumbles", "pgs.fumbles IS NOT NULL", nil
	case models.StatTotalYards:
		return "COALESCE(pgs.rushing_yards, 0) + COALESCE(pgs.receiving_yards, 0)",
			"(pgs.rushing_yards IS NOT NULL OR pgs.receiving_yards IS NOT NULL)", nil
	case models.StatTouchdowns:
		return "COALESCE(pgs.passing_tds, 0) + COALESCE(pgs.rushing_tds, 0) + COALESCE(pgs.receiving_tds, 0)",
			"(pgs.passing_tds IS NOT NULL OR pgs.rushing_tds IS NOT NULL OR pgs.receiving_tds IS NOT NULL)", nil
	}
	return "", "", fmt.Errorf("invalid stat selector: %d", int(stat))
}

// BuildRecentObservationsQuery returns the query for a player's most recent
// recorded values of one stat. Columns: game_id, week, season, game_date,
// opponent, stat_value.
func BuildRecentObservationsQuery(d Dialect, q models.ObservationQuery) (string, []interface{}, error) {
	expr, cond, err := statColumn(q.Stat)
	if err != nil {
		return "", nil, err
	}
	if q.GamesBack <= 0 {
		return "", nil, fmt.Errorf("games back must be positive, got %d", q.GamesBack)
	}

	a := &args{d: d}
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT g.game_id, %s AS week, %s AS season, g.game_date,
		CASE WHEN g.home_team = p.team THEN g.away_team ELSE g.home_team END AS opponent,
		%s AS stat_value
	FROM player_game_stats pgs
	JOIN games g ON g.game_id = pgs.game_id
	JOIN players p ON p.player_id = pgs.player_id
	WHERE pgs.player_id = %s AND %s`,
		d.toInt("g.week"), d.toInt("g.season"), d.toFloat(expr), a.add(q.PlayerID), cond)

	if len(q.Seasons) > 0 {
		placeholders := make([]string, len(q.Seasons))
		for i, s := range q.Seasons {
			placeholders[i] = a.add(s)
		}
		fmt.Fprintf(&sb, " AND g.season IN (%s)", strings.Join(placeholders, ", "))
	}

	fmt.Fprintf(&sb, " ORDER BY g.game_date DESC, g.game_id DESC LIMIT %d", q.GamesBack)
	return sb.String(), a.vals, nil
}

// BuildPlayersQuery returns the player directory query. Columns: player_id,
// full_name, position, team.
func BuildPlayersQuery(d Dialect, f models.PlayerFilter) (string, []interface{}) {
	a := &args{d: d}
	var sb strings.Builder
	sb.WriteString("SELECT player_id, full_name, position, team FROM players WHERE 1=1")

	if f.Position != "" {
		fmt.Fprintf(&sb, " AND position = %s", a.add(strings.ToUpper(f.Position)))
	}
	if f.Team != "" {
		fmt.Fprintf(&sb, " AND team = %s", a.add(strings.ToUpper(f.Team)))
	}
	if f.Query != "" {
		fmt.Fprintf(&sb, " AND lower(full_name) LIKE %s", a.add("%"+strings.ToLower(f.Query)+"%"))
	}

	sb.WriteString(" ORDER BY full_name, player_id")
	if f.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", f.Limit)
	}
	return sb.String(), a.vals
}

// BuildPlayerQuery returns the single-player lookup
func BuildPlayerQuery(d Dialect, id string) (string, []interface{}) {
	a := &args{d: d}
	return fmt.Sprintf("SELECT player_id, full_name, position, team FROM players WHERE player_id = %s", a.add(id)), a.vals
}
