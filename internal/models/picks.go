package models

import "time"

// PickGroup is one (position, stat) combination with the lines to evaluate
type PickGroup struct {
	Position string       `json:"position"`
	Stat     StatSelector `json:"stat_type"`
	Lines    []float64    `json:"lines"`
}

// PicksQuery parameters for the realistic picks search
type PicksQuery struct {
	Groups        []PickGroup
	MinHitRate    float64
	MaxHitRate    float64
	MinGames      int
	GamesBack     int
	ProximityBand float64 // fraction of the player's average, e.g. 0.25
	Limit         int
	Seasons       []int
}

// Pick is a player/stat/line whose hit rate and line both look plausible
type Pick struct {
	PlayerID      string       `json:"player_id"`
	PlayerName    string       `json:"player_name"`
	Position      string       `json:"position"`
	Team          string       `json:"team"`
	Stat          StatSelector `json:"stat_type"`
	Line          float64      `json:"line_value"`
	GamesAnalyzed int          `json:"games_analyzed"`
	TotalHits     int          `json:"total_hits"`
	HitRate       float64      `json:"hit_rate"`
	AverageValue  float64      `json:"average_value"`
	MedianValue   float64      `json:"median_value"`
}

// PicksReport is the globally ranked, truncated list of picks
type PicksReport struct {
	MinHitRate      float64 `json:"min_hit_rate"`
	MaxHitRate      float64 `json:"max_hit_rate"`
	MinGames        int     `json:"min_games"`
	GamesBack       int     `json:"games_back"`
	ProximityBand   float64 `json:"proximity_band"`
	ExcludedPlayers int     `json:"excluded_players"`
	TotalQualifying int     `json:"total_qualifying"`
	Picks           []Pick  `json:"picks"`
	Count           int     `json:"count"`
}

// PicksSnapshot is a stored PicksReport produced by the background refresher
type PicksSnapshot struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Duration    string       `json:"duration"`
	Report      *PicksReport `json:"report"`
}
