package handlers

import (
	"context"
	"sync"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

// MockLineService implements logic.LineAnalysisService for testing
type MockLineService struct {
	logic.LineAnalysisService
	AnalyzePlayerLineFunc  func(ctx context.Context, q models.LineQuery) (*models.LineAnalysis, error)
	FindRealisticPicksFunc func(ctx context.Context, q models.PicksQuery, exclusions models.ExclusionSet) (*models.PicksReport, error)
	GetPlayerFunc          func(ctx context.Context, id string) (*models.Player, error)
}

func (m *MockLineService) AnalyzePlayerLine(ctx context.Context, q models.LineQuery) (*models.LineAnalysis, error) {
	if m.AnalyzePlayerLineFunc != nil {
		return m.AnalyzePlayerLineFunc(ctx, q)
	}
	return &models.LineAnalysis{PlayerID: q.PlayerID, Stat: q.Stat, Line: q.Line}, nil
}

func (m *MockLineService) FindRealisticPicks(ctx context.Context, q models.PicksQuery, exclusions models.ExclusionSet) (*models.PicksReport, error) {
	if m.FindRealisticPicksFunc != nil {
		return m.FindRealisticPicksFunc(ctx, q, exclusions)
	}
	return &models.PicksReport{Picks: []models.Pick{}}, nil
}

func (m *MockLineService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return &models.Player{ID: id}, nil
}

// MockExclusionStore is an in-memory ExclusionStore with an injectable failure
type MockExclusionStore struct {
	mu      sync.Mutex
	entries map[models.ExclusionEntry]bool
	Err     error
}

func NewMockExclusionStore(entries ...models.ExclusionEntry) *MockExclusionStore {
	m := &MockExclusionStore{entries: make(map[models.ExclusionEntry]bool)}
	for _, e := range entries {
		m.entries[e] = true
	}
	return m
}

func (m *MockExclusionStore) ExcludedPlayers(ctx context.Context) (models.ExclusionSet, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(models.ExclusionSet)
	for e := range m.entries {
		set[e.PlayerID] = struct{}{}
	}
	return set, nil
}

func (m *MockExclusionStore) Add(ctx context.Context, e models.ExclusionEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e] = true
	return nil
}

func (m *MockExclusionStore) Remove(ctx context.Context, e models.ExclusionEntry) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.entries[e]
	delete(m.entries, e)
	return ok, nil
}

func (m *MockExclusionStore) List(ctx context.Context) ([]models.ExclusionEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ExclusionEntry, 0, len(m.entries))
	for e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

type MockSnapshots struct {
	Snap *models.PicksSnapshot
	Err  error
}

func (m *MockSnapshots) Latest(ctx context.Context) (*models.PicksSnapshot, error) {
	return m.Snap, m.Err
}
