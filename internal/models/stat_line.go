package models

// StatLine is one player's stored box score for one game.
// Nil fields mean the stat was not recorded for that game.
type StatLine struct {
	PlayerID       string   `json:"player_id"`
	GameID         string   `json:"game_id"`
	PassingYards   *float64 `json:"passing_yards,omitempty"`
	RushingYards   *float64 `json:"rushing_yards,omitempty"`
	ReceivingYards *float64 `json:"receiving_yards,omitempty"`
	Receptions     *float64 `json:"receptions,omitempty"`
	PassingTDs     *float64 `json:"passing_tds,omitempty"`
	RushingTDs     *float64 `json:"rushing_tds,omitempty"`
	ReceivingTDs   *float64 `json:"receiving_tds,omitempty"`
	Interceptions  *float64 `json:"interceptions,omitempty"`
	Fumbles        *float64 `json:"fumbles,omitempty"`
}

// Stat is a helper for building StatLine literals
func Stat(v float64) *float64 {
	return &v
}
