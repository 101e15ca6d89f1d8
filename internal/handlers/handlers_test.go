package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
	"github.com/pagepicks/lines-api/internal/store"
)

func testDataset() store.Dataset {
	day := func(d int) time.Time { return time.Date(2024, 9, d, 17, 0, 0, 0, time.UTC) }
	return store.Dataset{
		Players: []models.Player{
			{ID: "p1", Name: "Alpha Receiver", Position: "WR", Team: "DAL"},
			{ID: "p2", Name: "Bravo Receiver", Position: "WR", Team: "NYG"},
			{ID: "p3", Name: "Charlie Back", Position: "RB", Team: "DAL"},
		},
		Games: []models.Game{
			{ID: "g1", Season: 2024, Week: 1, GameDate: day(8), HomeTeam: "DAL", AwayTeam: "NYG"},
			{ID: "g2", Season: 2024, Week: 2, GameDate: day(15), HomeTeam: "NYG", AwayTeam: "DAL"},
			{ID: "g3", Season: 2024, Week: 3, GameDate: day(22), HomeTeam: "NYG", AwayTeam: "PHI"},
		},
		Stats: []models.StatLine{
			{PlayerID: "p1", GameID: "g1", ReceivingYards: models.Stat(125.5)},
			{PlayerID: "p1", GameID: "g2", ReceivingYards: models.Stat(89.0)},
			{PlayerID: "p2", GameID: "g1", ReceivingYards: models.Stat(40)},
			{PlayerID: "p2", GameID: "g2", ReceivingYards: models.Stat(150)},
			{PlayerID: "p2", GameID: "g3", ReceivingYards: models.Stat(160)},
			{PlayerID: "p3", GameID: "g1", RushingYards: models.Stat(70)},
		},
	}
}

func newTestHandler(lines logic.LineAnalysisService, excl ExclusionStore, snaps SnapshotReader) *Handler {
	return New(Config{
		Lines:      lines,
		Exclusions: excl,
		Snapshots:  snaps,
		Logger:     zap.NewNop(),
	})
}

func newEngineHandler(excl ExclusionStore) *Handler {
	svc := logic.NewLineAnalysisService(store.NewMemorySource(testDataset()), logic.AnalysisOptions{})
	return newTestHandler(svc, excl, &MockSnapshots{})
}

func serve(h *Handler, method, target string, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(h.RequestLogger)
	h.Routes(r)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetPlayerLineAnalysis(t *testing.T) {
	h := newEngineHandler(NewMockExclusionStore())

	w := serve(h, "GET", "/api/v1/players/p1/analysis?stat_type=receiving_yards&line_value=100", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var got models.LineAnalysis
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.GamesAnalyzed != 2 || got.TotalHits != 1 || got.HitRate != 50.0 {
		t.Errorf("got games=%d hits=%d rate=%v", got.GamesAnalyzed, got.TotalHits, got.HitRate)
	}
	if got.AverageValue != 107.25 || got.MedianValue != 107.25 {
		t.Errorf("got avg=%v median=%v", got.AverageValue, got.MedianValue)
	}
	if got.Stat != models.StatReceivingYards || got.GamesBack != 20 {
		t.Errorf("got stat=%v games_back=%d", got.Stat, got.GamesBack)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestGetPlayerLineAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Unknown stat",
			target:         "/api/v1/players/p1/analysis?stat_type=tackles&line_value=5",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid stat type",
		},
		{
			name:           "Missing line",
			target:         "/api/v1/players/p1/analysis?stat_type=receptions",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "line_value",
		},
		{
			name:           "Malformed games_back",
			target:         "/api/v1/players/p1/analysis?stat_type=receptions&line_value=4.5&games_back=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "games_back",
		},
		{
			name:           "Zero games_back",
			target:         "/api/v1/players/p1/analysis?stat_type=receptions&line_value=4.5&games_back=0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "games_back",
		},
		{
			name:           "Not found",
			target:         "/api/v1/players/zz/analysis?stat_type=receptions&line_value=4.5",
			serviceErr:     logic.ErrPlayerNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "player not found",
		},
		{
			name:           "Data source down",
			target:         "/api/v1/players/p1/analysis?stat_type=receptions&line_value=4.5",
			serviceErr:     fmt.Errorf("%w: recent receptions for p1: dial tcp 10.0.0.5:5432", logic.ErrDataSourceUnavailable),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"error":"data source unavailable"`,
		},
		{
			name:           "Unexpected failure",
			target:         "/api/v1/players/p1/analysis?stat_type=receptions&line_value=4.5",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockLineService{
				AnalyzePlayerLineFunc: func(ctx context.Context, q models.LineQuery) (*models.LineAnalysis, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.LineAnalysis{}, nil
				},
			}
			w := serve(newTestHandler(svc, NewMockExclusionStore(), &MockSnapshots{}), "GET", tt.target, "")

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
			if strings.Contains(w.Body.String(), "10.0.0.5") {
				t.Error("driver details leaked to the client")
			}
		})
	}
}

func TestGetMultipleLineAnalysis(t *testing.T) {
	h := newEngineHandler(NewMockExclusionStore())

	w := serve(h, "GET", "/api/v1/players/p1/multiple-lines?stat_type=receiving_yards&line_values=100,50,100", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got models.MultiLineAnalysis
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.LineAnalyses) != 2 || got.LineAnalyses[0].Line != 50 || got.LineAnalyses[1].Line != 100 {
		t.Fatalf("unexpected lines %+v", got.LineAnalyses)
	}
	if got.LineAnalyses[0].HitRate != 100 || got.LineAnalyses[1].HitRate != 50 {
		t.Errorf("unexpected hit rates %v / %v", got.LineAnalyses[0].HitRate, got.LineAnalyses[1].HitRate)
	}

	for _, target := range []string{
		"/api/v1/players/p1/multiple-lines?stat_type=receiving_yards&line_values=50,abc",
		"/api/v1/players/p1/multiple-lines?stat_type=receiving_yards",
		"/api/v1/players/p1/multiple-lines?stat_type=bogus&line_values=50",
		"/api/v1/players/p1/multiple-lines?stat_type=receiving_yards&line_values=50&games_back=101",
		"/api/v1/players/p1/multiple-lines?stat_type=receiving_yards&line_values=50&games_back=0",
	} {
		if w := serve(h, "GET", target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestPlayersDirectory(t *testing.T) {
	h := newEngineHandler(NewMockExclusionStore())

	w := serve(h, "GET", "/api/v1/players?position=wr", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":2`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}

	w = serve(h, "GET", "/api/v1/players/p3", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"player_name":"Charlie Back"`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}

	if w := serve(h, "GET", "/api/v1/players/nobody", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := serve(h, "GET", "/api/v1/players?limit=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGroupAnalysis(t *testing.T) {
	excl := NewMockExclusionStore()
	h := newEngineHandler(excl)

	w := serve(h, "GET", "/api/v1/analytics/position/wr?stat_type=receiving_yards&line_value=100", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var report models.GroupReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// p2: 2 of 3 (66.67), p1: 1 of 2 (50)
	if report.Position != "WR" || report.Count != 2 || report.Players[0].PlayerID != "p2" {
		t.Errorf("unexpected report %+v", report)
	}

	excl.Add(context.Background(), models.ExclusionEntry{PlayerID: "p2", Reason: models.ExclusionInjured})
	w = serve(h, "GET", "/api/v1/analytics/position/WR?stat_type=receiving_yards&line_value=100", "")
	if strings.Contains(w.Body.String(), `"player_id":"p2"`) {
		t.Errorf("excluded player returned: %s", w.Body.String())
	}

	w = serve(h, "GET", "/api/v1/analytics/team/dal?stat_type=receiving_yards&line_value=100", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"team":"DAL"`) || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("unexpected team report %d %s", w.Code, w.Body.String())
	}

	excl.Err = errors.New("redis: connection refused")
	w = serve(h, "GET", "/api/v1/analytics/position/WR?stat_type=receiving_yards&line_value=100", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("exclusion store failure should be 503, got %d", w.Code)
	}
}

func TestTrendingAndComparison(t *testing.T) {
	h := newEngineHandler(NewMockExclusionStore())

	// default min_games of 10 filters everyone in the test data
	w := serve(h, "GET", "/api/v1/analytics/trending?stat_type=receiving_yards&line_value=100", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":0`) {
		t.Errorf("unexpected trending response %d %s", w.Code, w.Body.String())
	}

	w = serve(h, "GET", "/api/v1/analytics/trending?stat_type=receiving_yards&line_value=100&min_games=2&limit=1", "")
	if !strings.Contains(w.Body.String(), `"player_id":"p2"`) || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("unexpected trending response %s", w.Body.String())
	}

	w = serve(h, "GET", "/api/v1/analytics/comparison?player_ids=p1,ghost,p3&stat_type=receiving_yards&line_value=100", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":2`) {
		t.Errorf("unexpected comparison response %d %s", w.Code, w.Body.String())
	}

	if w := serve(h, "GET", "/api/v1/analytics/comparison?stat_type=receiving_yards&line_value=100", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without player_ids, got %d", w.Code)
	}
}

func TestGetBestPicks(t *testing.T) {
	var got models.PicksQuery
	var gotExcl models.ExclusionSet
	svc := &MockLineService{
		FindRealisticPicksFunc: func(ctx context.Context, q models.PicksQuery, exclusions models.ExclusionSet) (*models.PicksReport, error) {
			got, gotExcl = q, exclusions
			return &models.PicksReport{Picks: []models.Pick{}}, nil
		},
	}
	excl := NewMockExclusionStore(models.ExclusionEntry{PlayerID: "p9", Reason: models.ExclusionManual})
	h := newTestHandler(svc, excl, &MockSnapshots{})

	w := serve(h, "GET", "/api/v1/picks/best", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.MinHitRate != 70 || got.MaxHitRate != 90 || got.ProximityBand != 0.25 || got.MinGames != 5 || got.Limit != 100 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if len(got.Groups) != len(logic.DefaultPickGroups()) || !gotExcl.Contains("p9") {
		t.Errorf("unexpected groups/exclusions: %d %v", len(got.Groups), gotExcl.IDs())
	}

	serve(h, "GET", "/api/v1/picks/best?min_hit_rate=60&max_hit_rate=80&proximity_band=0.5&limit=10", "")
	if got.MinHitRate != 60 || got.MaxHitRate != 80 || got.ProximityBand != 0.5 || got.Limit != 10 {
		t.Errorf("overrides not applied: %+v", got)
	}

	for _, target := range []string{
		"/api/v1/picks/best?min_hit_rate=95",
		"/api/v1/picks/best?proximity_band=0",
		"/api/v1/picks/best?min_games=0",
		"/api/v1/picks/best?limit=x",
	} {
		if w := serve(h, "GET", target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestGetLatestPicks(t *testing.T) {
	snaps := &MockSnapshots{}
	h := newTestHandler(&MockLineService{}, NewMockExclusionStore(), snaps)

	if w := serve(h, "GET", "/api/v1/picks/latest", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before the first snapshot, got %d", w.Code)
	}

	snaps.Snap = &models.PicksSnapshot{ID: "abc", Report: &models.PicksReport{Picks: []models.Pick{}}}
	w := serve(h, "GET", "/api/v1/picks/latest", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"id":"abc"`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}

	snaps.Err = errors.New("redis down")
	if w := serve(h, "GET", "/api/v1/picks/latest", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestExclusionEndpoints(t *testing.T) {
	excl := NewMockExclusionStore()
	h := newTestHandler(&MockLineService{}, excl, &MockSnapshots{})

	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
	}{
		{"Add", "POST", "/api/v1/exclusions", `{"player_id":"p1","reason":"injured"}`, http.StatusCreated},
		{"Unknown reason", "POST", "/api/v1/exclusions", `{"player_id":"p1","reason":"suspended"}`, http.StatusBadRequest},
		{"Missing player", "POST", "/api/v1/exclusions", `{"reason":"manual"}`, http.StatusBadRequest},
		{"Bad JSON", "POST", "/api/v1/exclusions", `{"player_id":`, http.StatusBadRequest},
		{"Remove", "DELETE", "/api/v1/exclusions/injured/p1", "", http.StatusNoContent},
		{"Remove again", "DELETE", "/api/v1/exclusions/injured/p1", "", http.StatusNotFound},
		{"Remove bad reason", "DELETE", "/api/v1/exclusions/bogus/p1", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.target, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	excl.Add(context.Background(), models.ExclusionEntry{PlayerID: "p2", Reason: models.ExclusionTeamChange})
	w := serve(h, "GET", "/api/v1/exclusions", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("unexpected list %d %s", w.Code, w.Body.String())
	}
}

func TestExclusionEndpoints_StoreOutage(t *testing.T) {
	excl := NewMockExclusionStore()
	excl.Err = fmt.Errorf("%w: add exclusion: dial tcp 10.0.0.5:6379", logic.ErrDataSourceUnavailable)
	h := newTestHandler(&MockLineService{}, excl, &MockSnapshots{})

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"List", "GET", "/api/v1/exclusions", ""},
		{"Add", "POST", "/api/v1/exclusions", `{"player_id":"p1","reason":"injured"}`},
		{"Remove", "DELETE", "/api/v1/exclusions/injured/p1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.target, tt.body)
			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("expected status 503, got %d: %s", w.Code, w.Body.String())
			}
			if strings.Contains(w.Body.String(), "10.0.0.5") {
				t.Error("driver details leaked to the client")
			}
		})
	}
}

func TestHealthAndReady(t *testing.T) {
	h := New(Config{
		Lines:      &MockLineService{},
		Exclusions: NewMockExclusionStore(),
		Snapshots:  &MockSnapshots{},
		Logger:     zap.NewNop(),
		Checks: map[string]HealthCheck{
			"source": func(ctx context.Context) error { return nil },
			"redis":  func(ctx context.Context) error { return errors.New("refused") },
		},
	})

	if w := serve(h, "GET", "/health", ""); w.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", w.Code)
	}

	w := serve(h, "GET", "/ready", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready: expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"redis":false`) || !strings.Contains(w.Body.String(), `"source":true`) {
		t.Errorf("unexpected readiness body %s", w.Body.String())
	}
}
