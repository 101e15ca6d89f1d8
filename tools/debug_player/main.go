package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
	"github.com/pagepicks/lines-api/internal/store"
)

// Prints a player's recent games against a line straight from ClickHouse
func main() {
	playerID := flag.String("player", "00-0036358", "player id")
	statName := flag.String("stat", "receiving_yards", "stat type")
	line := flag.Float64("line", 75.5, "line value")
	gamesBack := flag.Int("games", 10, "games back")
	flag.Parse()

	chURL := os.Getenv("LINES_CLICKHOUSE_URL")
	if chURL == "" {
		chURL = "clickhouse://localhost:9000/lines"
	}

	opts, err := clickhouse.ParseDSN(chURL)
	if err != nil {
		log.Fatalf("Failed to parse DSN: %v", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open connection: %v", err)
	}
	defer conn.Close()

	stat, err := models.ParseStatSelector(*statName)
	if err != nil {
		log.Fatalf("Bad stat: %v", err)
	}

	ctx := context.Background()
	svc := logic.NewLineAnalysisService(store.NewClickHouseSource(conn), logic.AnalysisOptions{})
	a, err := svc.AnalyzePlayerLine(ctx, models.LineQuery{
		PlayerID:  *playerID,
		Stat:      stat,
		Line:      *line,
		GamesBack: *gamesBack,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("%s (%s %s) %s over %.1f\n", a.PlayerName, a.Position, a.Team, a.Stat, a.Line)
	for _, g := range a.Games {
		mark := " "
		if g.Hit {
			mark = "x"
		}
		fmt.Printf("  [%s] %d wk%-2d vs %-3s %7.1f  %s\n", mark, g.Season, g.Week, g.Opponent, g.StatValue, g.GameID)
	}
	fmt.Printf("hits=%d/%d rate=%.2f%% avg=%.2f median=%.2f\n",
		a.TotalHits, a.GamesAnalyzed, a.HitRate, a.AverageValue, a.MedianValue)
}
