package logic

import "github.com/pagepicks/lines-api/internal/models"

// Realistic pick defaults
const (
	DefaultMinHitRate    = 70.0
	DefaultMaxHitRate    = 90.0
	DefaultProximityBand = 0.25
	DefaultPickMinGames  = 5
	DefaultPickLimit     = 100
	DefaultGamesBack     = 20
)

// DefaultPickGroups is the position/stat/line ladder searched for realistic picks
func DefaultPickGroups() []models.PickGroup {
	return []models.PickGroup{
		{Position: "QB", Stat: models.StatPassingYards, Lines: []float64{200.5, 225.5, 250.5, 275.5, 300.5}},
		{Position: "QB", Stat: models.StatRushingYards, Lines: []float64{15.5, 20.5, 25.5, 30.5, 35.5}},

		{Position: "WR", Stat: models.StatReceivingYards, Lines: []float64{40.5, 50.5, 60.5, 75.5, 90.5, 100.5}},
		{Position: "WR", Stat: models.StatReceptions, Lines: []float64{2.5, 3.5, 4.5, 5.5, 6.5, 7.5}},
		{Position: "WR", Stat: models.StatRushingYards, Lines: []float64{5.5, 10.5, 15.5, 20.5}},
		{Position: "WR", Stat: models.StatTotalYards, Lines: []float64{45.5, 60.5, 75.5, 90.5, 105.5, 120.5}},

		{Position: "RB", Stat: models.StatRushingYards, Lines: []float64{40.5, 50.5, 60.5, 75.5, 90.5, 100.5}},
		{Position: "RB", Stat: models.StatReceivingYards, Lines: []float64{10.5, 20.5, 30.5, 40.5, 50.5}},
		{Position: "RB", Stat: models.StatReceptions, Lines: []float64{1.5, 2.5, 3.5, 4.5, 5.5}},
		{Position: "RB", Stat: models.StatTotalYards, Lines: []float64{50.5, 70.5, 90.5, 110.5, 130.5, 150.5}},

		{Position: "TE", Stat: models.StatReceivingYards, Lines: []float64{25.5, 35.5, 45.5, 55.5, 65.5}},
		{Position: "TE", Stat: models.StatReceptions, Lines: []float64{2.5, 3.5, 4.5, 5.5, 6.5}},
		{Position: "TE", Stat: models.StatTotalYards, Lines: []float64{25.5, 35.5, 45.5, 55.5, 65.5}},
	}
}

// DefaultPicksQuery builds a PicksQuery over DefaultPickGroups with the default bands
func DefaultPicksQuery() models.PicksQuery {
	return models.PicksQuery{
		Groups:        DefaultPickGroups(),
		MinHitRate:    DefaultMinHitRate,
		MaxHitRate:    DefaultMaxHitRate,
		MinGames:      DefaultPickMinGames,
		GamesBack:     DefaultGamesBack,
		ProximityBand: DefaultProximityBand,
		Limit:         DefaultPickLimit,
	}
}
