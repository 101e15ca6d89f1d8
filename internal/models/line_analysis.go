package models

import (
	"time"
)

// LineQuery parameters for a single player/stat/line analysis
type LineQuery struct {
	PlayerID  string
	Stat      StatSelector
	Line      float64
	GamesBack int
	Seasons   []int
}

// GameResult is one game in a line analysis breakdown
type GameResult struct {
	GameID    string    `json:"game_id"`
	Week      int       `json:"week"`
	Season    int       `json:"season"`
	Opponent  string    `json:"opponent"`
	StatValue float64   `json:"stat_value"`
	GameDate  time.Time `json:"game_date"`
	Hit       bool      `json:"hit"`
}

// SeasonSplit summarizes the games of one season inside the analysis window
type SeasonSplit struct {
	Season        int     `json:"season"`
	GamesAnalyzed int     `json:"games_analyzed"`
	TotalHits     int     `json:"total_hits"`
	HitRate       float64 `json:"hit_rate"`
	AverageValue  float64 `json:"average_value"`
}

// LineAnalysis is how often a player met a line over the recent-games window
type LineAnalysis struct {
	PlayerID      string        `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	Position      string        `json:"position"`
	Team          string        `json:"team"`
	Stat          StatSelector  `json:"stat_type"`
	Line          float64       `json:"line_value"`
	GamesBack     int           `json:"games_back"`
	GamesAnalyzed int           `json:"games_analyzed"`
	TotalHits     int           `json:"total_hits"`
	HitRate       float64       `json:"hit_rate"`
	AverageValue  float64       `json:"average_value"`
	MedianValue   float64       `json:"median_value"`
	NoData        bool          `json:"no_data"`
	Games         []GameResult  `json:"games"`
	SeasonSplits  []SeasonSplit `json:"season_splits"`
}

// Summary drops the per-game breakdown
func (a *LineAnalysis) Summary() PlayerLineSummary {
	return PlayerLineSummary{
		PlayerID:      a.PlayerID,
		PlayerName:    a.PlayerName,
		Position:      a.Position,
		Team:          a.Team,
		Stat:          a.Stat,
		Line:          a.Line,
		GamesAnalyzed: a.GamesAnalyzed,
		TotalHits:     a.TotalHits,
		HitRate:       a.HitRate,
		AverageValue:  a.AverageValue,
		MedianValue:   a.MedianValue,
	}
}

// MultiLineAnalysis evaluates several lines against one shared window
type MultiLineAnalysis struct {
	PlayerID      string         `json:"player_id"`
	PlayerName    string         `json:"player_name"`
	Stat          StatSelector   `json:"stat_type"`
	GamesBack     int            `json:"games_back"`
	GamesAnalyzed int            `json:"games_analyzed"`
	LineAnalyses  []LineAnalysis `json:"line_analyses"` // ascending by line
}

// ByLine returns the analysis for a given line value, or nil
func (m *MultiLineAnalysis) ByLine(line float64) *LineAnalysis {
	for i := range m.LineAnalyses {
		if m.LineAnalyses[i].Line == line {
			return &m.LineAnalyses[i]
		}
	}
	return nil
}

// PlayerLineSummary is a LineAnalysis without the game breakdown
type PlayerLineSummary struct {
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

// GroupQuery analyzes one line across a candidate set of players
type GroupQuery struct {
	PlayerIDs []string
	Stat      StatSelector
	Line      float64
	GamesBack int
	MinGames  int
	Seasons   []int
}

// GroupReport is a hit-rate ranking of players for one stat/line
type GroupReport struct {
	Stat      StatSelector        `json:"stat_type"`
	Line      float64             `json:"line_value"`
	GamesBack int                 `json:"games_back"`
	MinGames  int                 `json:"min_games"`
	Position  string              `json:"position,omitempty"`
	Team      string              `json:"team,omitempty"`
	Players   []PlayerLineSummary `json:"players"`
	Count     int                 `json:"count"`
}

// CompareQuery compares specific players against the same line
type CompareQuery struct {
	PlayerIDs []string
	Stat      StatSelector
	Line      float64
	GamesBack int
	Seasons   []int
}

// TrendingQuery ranks every known player for one stat/line
type TrendingQuery struct {
	Stat      StatSelector
	Line      float64
	GamesBack int
	MinGames  int
	Limit     int
	Seasons   []int
}
