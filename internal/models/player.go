package models

import "time"

// Player is a tracked performer whose per-game stats are analyzed
type Player struct {
	ID       string `json:"player_id"`
	Name     string `json:"player_name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

// PlayerFilter narrows the player directory. Empty fields match everything.
type PlayerFilter struct {
	Position string `json:"position,omitempty"`
	Team     string `json:"team,omitempty"`
	Query    string `json:"query,omitempty"` // case-insensitive name substring
	Limit    int    `json:"limit,omitempty"`
}

// Game is a single scheduled/played game
type Game struct {
	ID       string    `json:"game_id"`
	Season   int       `json:"season"`
	Week     int       `json:"week"`
	GameDate time.Time `json:"game_date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// Opponent returns the team the given side played against
func (g Game) Opponent(team string) string {
	if g.HomeTeam == team {
		return g.AwayTeam
	}
	return g.HomeTeam
}
