package logic

import (
	"context"

	"github.com/pagepicks/lines-api/internal/models"
)

// ObservationSource is the read-only data access the analytics engine consumes
type ObservationSource interface {
	// GetPlayer returns ErrPlayerNotFound when the player does not exist
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	// GetRecentObservations returns at most q.GamesBack observations with the
	// selected stat recorded, most recent game first
	GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error)
	ListPlayers(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error)
}

// ExclusionProvider supplies the players to drop from group aggregations
type ExclusionProvider interface {
	ExcludedPlayers(ctx context.Context) (models.ExclusionSet, error)
}

// LineAnalysisService computes line hit rates over recent games
type LineAnalysisService interface {
	AnalyzePlayerLine(ctx context.Context, q models.LineQuery) (*models.LineAnalysis, error)
	AnalyzeMultipleLines(ctx context.Context, playerID string, stat models.StatSelector, lines []float64, gamesBack int, seasons []int) (*models.MultiLineAnalysis, error)
	AnalyzeGroup(ctx context.Context, q models.GroupQuery, exclusions models.ExclusionSet) (*models.GroupReport, error)
	FindRealisticPicks(ctx context.Context, q models.PicksQuery, exclusions models.ExclusionSet) (*models.PicksReport, error)
	ComparePlayers(ctx context.Context, q models.CompareQuery) (*models.GroupReport, error)
	Trending(ctx context.Context, q models.TrendingQuery, exclusions models.ExclusionSet) (*models.GroupReport, error)
	ListPlayers(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
}
