package store

import (
	"context"
	"sort"
	"strings"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

// Dataset is a complete set of players, games and box scores
type Dataset struct {
	Players []models.Player
	Games   []models.Game
	Stats   []models.StatLine
}

// MemorySource serves a Dataset from memory. It is read-only once built.
type MemorySource struct {
	players map[string]models.Player
	games   map[string]models.Game
	stats   map[string][]models.StatLine // by player ID
}

func NewMemorySource(ds Dataset) *MemorySource {
	m := &MemorySource{
		players: make(map[string]models.Player, len(ds.Players)),
		games:   make(map[string]models.Game, len(ds.Games)),
		stats:   make(map[string][]models.StatLine),
	}
	for _, p := range ds.Players {
		m.players[p.ID] = p
	}
	for _, g := range ds.Games {
		m.games[g.ID] = g
	}
	for _, s := range ds.Stats {
		m.stats[s.PlayerID] = append(m.stats[s.PlayerID], s)
	}
	return m
}

func (m *MemorySource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	p, ok := m.players[id]
	if !ok {
		return nil, logic.ErrPlayerNotFound
	}
	return &p, nil
}

func (m *MemorySource) GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	player := m.players[q.PlayerID]

	out := make([]models.Observation, 0)
	for _, line := range m.stats[q.PlayerID] {
		game, ok := m.games[line.GameID]
		if !ok || !q.MatchesSeason(game.Season) {
			continue
		}
		value, ok := q.Stat.Extract(line)
		if !ok {
			continue
		}
		out = append(out, models.Observation{
			PlayerID: q.PlayerID,
			GameID:   game.ID,
			Week:     game.Week,
			Season:   game.Season,
			GameDate: game.GameDate,
			Opponent: game.Opponent(player.Team),
			Value:    value,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.After(out[j].GameDate)
		}
		return out[i].GameID > out[j].GameID
	})
	if q.GamesBack > 0 && len(out) > q.GamesBack {
		out = out[:q.GamesBack]
	}
	return out, nil
}

func (m *MemorySource) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	query := strings.ToLower(f.Query)
	out := make([]models.Player, 0)
	for _, p := range m.players {
		if f.Position != "" && !strings.EqualFold(p.Position, f.Position) {
			continue
		}
		if f.Team != "" && !strings.EqualFold(p.Team, f.Team) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
