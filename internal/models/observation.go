package models

import "time"

// Observation is one player's recorded value for one statistic in one game
type Observation struct {
	PlayerID string    `json:"player_id"`
	GameID   string    `json:"game_id"`
	Week     int       `json:"week"`
	Season   int       `json:"season"`
	GameDate time.Time `json:"game_date"`
	Opponent string    `json:"opponent"`
	Value    float64   `json:"stat_value"`
}

// ObservationQuery selects a player's most recent qualifying observations
type ObservationQuery struct {
	PlayerID  string
	Stat      StatSelector
	GamesBack int
	Seasons   []int // empty means every season
}

// MatchesSeason reports whether season passes the query's season filter
func (q ObservationQuery) MatchesSeason(season int) bool {
	if len(q.Seasons) == 0 {
		return true
	}
	for _, s := range q.Seasons {
		if s == season {
			return true
		}
	}
	return false
}
