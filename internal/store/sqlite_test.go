package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

func openTestDB(t *testing.T, ds Dataset) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := LoadSQLite(ctx, db, ds); err != nil {
		t.Fatalf("LoadSQLite() error = %v", err)
	}
	return db
}

func TestSQLiteSource_LineAnalysis(t *testing.T) {
	db := openTestDB(t, smallDataset())
	svc := logic.NewLineAnalysisService(NewSQLiteSource(db), logic.AnalysisOptions{})

	got, err := svc.AnalyzePlayerLine(context.Background(), models.LineQuery{
		PlayerID: "p1", Stat: models.StatReceivingYards, Line: 100, GamesBack: 20,
	})
	if err != nil {
		t.Fatalf("AnalyzePlayerLine() error = %v", err)
	}
	if got.GamesAnalyzed != 2 || got.TotalHits != 1 || got.HitRate != 50.0 {
		t.Errorf("got games=%d hits=%d rate=%v", got.GamesAnalyzed, got.TotalHits, got.HitRate)
	}
	if got.AverageValue != 107.25 || got.MedianValue != 107.25 {
		t.Errorf("got avg=%v median=%v, want 107.25", got.AverageValue, got.MedianValue)
	}
	if got.Games[0].GameID != "g2" || got.Games[0].Opponent != "PHI" {
		t.Errorf("unexpected first game %+v", got.Games[0])
	}

	_, err = svc.AnalyzePlayerLine(context.Background(), models.LineQuery{
		PlayerID: "ghost", Stat: models.StatReceivingYards, Line: 100, GamesBack: 20,
	})
	if !errors.Is(err, logic.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestSQLiteSource_MatchesMemorySource(t *testing.T) {
	ds := DemoDataset()
	sqlite := NewSQLiteSource(openTestDB(t, ds))
	mem := NewMemorySource(ds)
	ctx := context.Background()

	windows := []struct {
		gamesBack int
		seasons   []int
	}{
		{20, nil},
		{5, nil},
		{20, []int{2025}},
		{3, []int{2024}},
	}

	for _, p := range ds.Players {
		for _, stat := range models.AllStatSelectors {
			for _, w := range windows {
				q := models.ObservationQuery{PlayerID: p.ID, Stat: stat, GamesBack: w.gamesBack, Seasons: w.seasons}
				want, err := mem.GetRecentObservations(ctx, q)
				if err != nil {
					t.Fatalf("memory: %v", err)
				}
				got, err := sqlite.GetRecentObservations(ctx, q)
				if err != nil {
					t.Fatalf("sqlite %s/%s: %v", p.ID, stat, err)
				}
				if len(got) != len(want) {
					t.Fatalf("%s/%s/%d: got %d observations, want %d", p.ID, stat, w.gamesBack, len(got), len(want))
				}
				for i := range want {
					if got[i].GameID != want[i].GameID || got[i].Value != want[i].Value ||
						got[i].Opponent != want[i].Opponent || got[i].Season != want[i].Season ||
						got[i].Week != want[i].Week || !got[i].GameDate.Equal(want[i].GameDate) {
						t.Errorf("%s/%s[%d]: got %+v, want %+v", p.ID, stat, i, got[i], want[i])
					}
				}
			}
		}
	}

	gotPlayers, err := sqlite.ListPlayers(ctx, models.PlayerFilter{Position: "wr"})
	if err != nil {
		t.Fatalf("ListPlayers() error = %v", err)
	}
	wantPlayers, _ := mem.ListPlayers(ctx, models.PlayerFilter{Position: "wr"})
	if len(gotPlayers) != len(wantPlayers) {
		t.Fatalf("got %d WRs, want %d", len(gotPlayers), len(wantPlayers))
	}
	for i := range wantPlayers {
		if gotPlayers[i] != wantPlayers[i] {
			t.Errorf("player %d = %+v, want %+v", i, gotPlayers[i], wantPlayers[i])
		}
	}
}

func TestLoadSQLite_Replaces(t *testing.T) {
	db := openTestDB(t, DemoDataset())
	if err := LoadSQLite(context.Background(), db, smallDataset()); err != nil {
		t.Fatalf("LoadSQLite() error = %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM players").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 players after reload, got %d", n)
	}
}
