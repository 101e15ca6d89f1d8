package store

import (
	"time"

	"github.com/pagepicks/lines-api/internal/models"
)

// rowScanner is the subset shared by pgx.Rows, *sql.Rows and the ClickHouse driver.Rows
type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanObservations(rows rowScanner, playerID string) ([]models.Observation, error) {
	out := make([]models.Observation, 0)
	for rows.Next() {
		var (
			o            models.Observation
			week, season int64
			date         time.Time
		)
		if err := rows.Scan(&o.GameID, &week, &season, &date, &o.Opponent, &o.Value); err != nil {
			return nil, err
		}
		o.PlayerID = playerID
		o.Week = int(week)
		o.Season = int(season)
		o.GameDate = date.UTC()
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPlayers(rows rowScanner) ([]models.Player, error) {
	out := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Team); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
