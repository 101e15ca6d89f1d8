package store

import (
	"fmt"
	"math"
	"time"

	"github.com/pagepicks/lines-api/internal/models"
)

var na = math.NaN()

var demoTeams = []string{"KC", "BUF", "DAL", "MIA", "BAL", "IND", "PHI", "SF"}

var demoSeasons = []struct {
	season  int
	kickoff time.Time
	weeks   int
}{
	{2024, time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC), 10},
	{2025, time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC), 4},
}

// demoPlayer holds one series per stat, oldest game first. NaN marks a game
// where the stat was not recorded.
type demoPlayer struct {
	models.Player
	passYds, rushYds, recYds, rec          []float64
	passTDs, rushTDs, recTDs, ints, fumbles []float64
}

var demoPlayers = []demoPlayer{
	{
		Player:  models.Player{ID: "00-0033873", Name: "Patrick Mahomes", Position: "QB", Team: "KC"},
		passYds: []float64{291, 205, 262, 245, 331, 154, 262, 210, 266, 236, 286, 248, 270, 222},
		rushYds: []float64{14, 27, 8, 19, 3, 36, 11, na, 22, 6, 17, 9, 31, 12},
		passTDs: []float64{1, 1, 3, 1, 2, 0, 2, 1, 2, 1, 3, 2, 2, 1},
		rushTDs: []float64{0, 0, 0, 0, 0, 1, 0, na, 0, 0, 0, 0, 1, 0},
		ints:    []float64{2, 1, 0, 1, 0, 2, 0, 1, 1, 0, 0, 1, 0, 1},
		fumbles: []float64{0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0},
	},
	{
		Player:  models.Player{ID: "00-0034857", Name: "Josh Allen", Position: "QB", Team: "BUF"},
		passYds: []float64{232, 263, 147, 180, 323, 208, 216, 307, 262, 155, 394, 213, 199, 266},
		rushYds: []float64{39, 30, 33, 18, 46, 44, 37, 28, 9, 55, 30, 38, 22, 51},
		passTDs: []float64{2, 2, 1, 1, 2, 1, 2, 3, 2, 0, 2, 2, 1, 3},
		rushTDs: []float64{2, 0, 1, 0, 0, 1, 0, 1, 0, 1, 2, 1, 0, 1},
		ints:    []float64{0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
		fumbles: []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1},
	},
	{
		Player:  models.Player{ID: "00-0036358", Name: "CeeDee Lamb", Position: "WR", Team: "DAL"},
		rushYds: []float64{na, 8, na, na, 6, na, na, 11, na, na, 4, na, na, na},
		recYds:  []float64{61, 113, 98, 62, 146, 100, 63, 75, 93, 116, 110, 112, 85, 121},
		rec:     []float64{5, 7, 6, 5, 8, 7, 4, 6, 7, 8, 7, 9, 6, 8},
		rushTDs: []float64{na, 0, na, na, 0, na, na, 1, na, na, 0, na, na, na},
		recTDs:  []float64{0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 1},
		fumbles: []float64{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	{
		Player:  models.Player{ID: "00-0033040", Name: "Tyreek Hill", Position: "WR", Team: "MIA"},
		rushYds: []float64{7, na, na, 4, na, na, na, 3, na, na, na, 5, na, na},
		recYds:  []float64{130, 40, 18, 66, 62, 33, 44, 115, 72, 61, 99, 43, 67, 80},
		rec:     []float64{7, 3, 2, 5, 5, 3, 4, 10, 6, 4, 9, 4, 6, 6},
		rushTDs: []float64{0, na, na, 0, na, na, na, 0, na, na, na, 0, na, na},
		recTDs:  []float64{1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 0, 0},
		fumbles: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0},
	},
	{
		Player:  models.Player{ID: "00-0032764", Name: "Derrick Henry", Position: "RB", Team: "BAL"},
		rushYds: []float64{84, 46, 151, 199, 132, 67, 169, 81, 68, 103, 140, 96, 122, 87},
		recYds:  []float64{5, 0, 12, na, 7, 17, 0, 9, na, 18, 11, 4, na, 13},
		rec:     []float64{1, 0, 2, na, 1, 2, 0, 1, na, 2, 1, 1, na, 2},
		rushTDs: []float64{1, 0, 2, 2, 1, 1, 1, 0, 1, 1, 1, 0, 2, 1},
		recTDs:  []float64{0, 0, 0, na, 0, 0, 0, 0, na, 1, 0, 0, na, 0},
		fumbles: []float64{0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0},
	},
	{
		Player:  models.Player{ID: "00-0036223", Name: "Jonathan Taylor", Position: "RB", Team: "IND"},
		rushYds: []float64{48, 103, 54, 85, 95, 65, 114, 104, 41, 218, 96, 110, 74, 128},
		recYds:  []float64{17, 6, 22, 0, 12, 5, na, 18, 27, 3, 10, 22, 8, 15},
		rec:     []float64{2, 1, 3, 0, 2, 1, na, 3, 4, 1, 2, 3, 1, 2},
		rushTDs: []float64{1, 0, 1, 1, 0, 0, 1, 1, 0, 3, 1, 2, 0, 1},
		recTDs:  []float64{0, 0, 0, 0, 0, 0, na, 0, 1, 0, 0, 0, 0, 0},
		fumbles: []float64{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	{
		Player:  models.Player{ID: "00-0030506", Name: "Travis Kelce", Position: "TE", Team: "KC"},
		recYds:  []float64{34, 39, 69, 89, 70, 90, 31, 43, 56, 100, 47, 64, 61, 26},
		rec:     []float64{3, 4, 7, 9, 7, 9, 4, 5, 6, 8, 5, 6, 6, 3},
		recTDs:  []float64{0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 0},
		fumbles: []float64{0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	{
		Player:  models.Player{ID: "00-0034753", Name: "Mark Andrews", Position: "TE", Team: "BAL"},
		recYds:  []float64{14, 0, 28, 53, 67, 41, 28, 32, 68, 25, 45, 32, 58, 27},
		rec:     []float64{2, 0, 3, 4, 5, 3, 2, 3, 5, 2, 4, 3, 5, 2},
		recTDs:  []float64{0, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 0, 1, 0},
		fumbles: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
}

// roundPairs returns the pairings for one round of a circle-method schedule
func roundPairs(teams []string, round int) [][2]string {
	n := len(teams)
	rotated := make([]string, n)
	rotated[0] = teams[0]
	for i := 1; i < n; i++ {
		rotated[i] = teams[1+(i-1+round)%(n-1)]
	}
	pairs := make([][2]string, 0, n/2)
	for i := 0; i < n/2; i++ {
		home, away := rotated[i], rotated[n-1-i]
		if round%2 == 1 {
			home, away = away, home
		}
		pairs = append(pairs, [2]string{home, away})
	}
	return pairs
}

func demoStat(series []float64, i int) *float64 {
	if i >= len(series) || math.IsNaN(series[i]) {
		return nil
	}
	return models.Stat(series[i])
}

// DemoDataset builds a deterministic dataset of eight players across two
// seasons. It backs the memory data source and the seeder.
func DemoDataset() Dataset {
	var ds Dataset
	gameByTeam := make(map[string][]string) // team -> game IDs in schedule order

	round := 0
	for _, s := range demoSeasons {
		for week := 1; week <= s.weeks; week++ {
			date := s.kickoff.AddDate(0, 0, 7*(week-1))
			for _, pair := range roundPairs(demoTeams, round) {
				g := models.Game{
					ID:       fmt.Sprintf("%d_%02d_%s_%s", s.season, week, pair[1], pair[0]),
					Season:   s.season,
					Week:     week,
					GameDate: date,
					HomeTeam: pair[0],
					AwayTeam: pair[1],
				}
				ds.Games = append(ds.Games, g)
				gameByTeam[g.HomeTeam] = append(gameByTeam[g.HomeTeam], g.ID)
				gameByTeam[g.AwayTeam] = append(gameByTeam[g.AwayTeam], g.ID)
			}
			round++
		}
	}

	for _, p := range demoPlayers {
		ds.Players = append(ds.Players, p.Player)
		for i, gameID := range gameByTeam[p.Team] {
			ds.Stats = append(ds.Stats, models.StatLine{
				PlayerID:       p.ID,
				GameID:         gameID,
				PassingYards:   demoStat(p.passYds, i),
				RushingYards:   demoStat(p.rushYds, i),
				ReceivingYards: demoStat(p.recYds, i),
				Receptions:     demoStat(p.rec, i),
				PassingTDs:     demoStat(p.passTDs, i),
				RushingTDs:     demoStat(p.rushTDs, i),
				ReceivingTDs:   demoStat(p.recTDs, i),
				Interceptions:  demoStat(p.ints, i),
				Fumbles:        demoStat(p.fumbles, i),
			})
		}
	}
	return ds
}
