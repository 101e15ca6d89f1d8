package logic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pagepicks/lines-api/internal/models"
)

// MockSource implements ObservationSource for testing
type MockSource struct {
	Players      map[string]models.Player
	Observations map[string][]models.Observation // keyed by obsKey
	GetPlayerErr error
	ObsErr       error
	ListErr      error

	mu       sync.Mutex
	ObsCalls map[string]int // keyed by player ID
}

func NewMockSource() *MockSource {
	return &MockSource{
		Players:      make(map[string]models.Player),
		Observations: make(map[string][]models.Observation),
		ObsCalls:     make(map[string]int),
	}
}

func obsKey(playerID string, stat models.StatSelector) string {
	return playerID + "/" + stat.String()
}

func (m *MockSource) AddPlayer(p models.Player, stat models.StatSelector, values ...float64) {
	m.Players[p.ID] = p
	m.Observations[obsKey(p.ID, stat)] = obsSeq(p.ID, values...)
}

func (m *MockSource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if m.GetPlayerErr != nil {
		return nil, m.GetPlayerErr
	}
	p, ok := m.Players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

// GetRecentObservations returns everything stored, leaving ordering and
// windowing to the engine
func (m *MockSource) GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error) {
	m.mu.Lock()
	m.ObsCalls[q.PlayerID]++
	m.mu.Unlock()
	if m.ObsErr != nil {
		return nil, m.ObsErr
	}
	return append([]models.Observation(nil), m.Observations[obsKey(q.PlayerID, q.Stat)]...), nil
}

func (m *MockSource) ListPlayers(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.Player
	for _, p := range m.Players {
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if filter.Team != "" && p.Team != filter.Team {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MockSource) calls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ObsCalls[id]
}

var baseDate = time.Date(2025, time.January, 5, 18, 0, 0, 0, time.UTC)

// obsSeq builds observations most recent first, one week apart
func obsSeq(playerID string, values ...float64) []models.Observation {
	out := make([]models.Observation, len(values))
	for i, v := range values {
		out[i] = models.Observation{
			PlayerID: playerID,
			GameID:   fmt.Sprintf("g%02d", len(values)-i),
			Week:     18 - i,
			Season:   2024,
			GameDate: baseDate.AddDate(0, 0, -7*i),
			Opponent: "OPP",
			Value:    v,
		}
	}
	return out
}
