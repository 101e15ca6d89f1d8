package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// ExclusionStore is the admin surface over the exclusion set
type ExclusionStore interface {
	logic.ExclusionProvider
	Add(ctx context.Context, e models.ExclusionEntry) error
	Remove(ctx context.Context, e models.ExclusionEntry) (bool, error)
	List(ctx context.Context) ([]models.ExclusionEntry, error)
}

// SnapshotReader serves the refresher's latest picks
type SnapshotReader interface {
	Latest(ctx context.Context) (*models.PicksSnapshot, error)
}

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

type Config struct {
	Lines      logic.LineAnalysisService
	Exclusions ExclusionStore
	Snapshots  SnapshotReader
	Checks     map[string]HealthCheck
	Logger     *zap.Logger

	// Defaults applied when a request omits the parameter
	DefaultGamesBack int
	Seasons          []int
	Picks            models.PicksQuery
}

type Handler struct {
	lines      logic.LineAnalysisService
	exclusions ExclusionStore
	snapshots  SnapshotReader
	checks     map[string]HealthCheck
	logger     *zap.SugaredLogger
	validator  *validator.Validate

	defaultGamesBack int
	seasons          []int
	picks            models.PicksQuery
}

func New(cfg Config) *Handler {
	if cfg.DefaultGamesBack <= 0 {
		cfg.DefaultGamesBack = logic.DefaultGamesBack
	}
	if len(cfg.Picks.Groups) == 0 {
		cfg.Picks = logic.DefaultPicksQuery()
	}
	return &Handler{
		lines:            cfg.Lines,
		exclusions:       cfg.Exclusions,
		snapshots:        cfg.Snapshots,
		checks:           cfg.Checks,
		logger:           cfg.Logger.Sugar(),
		validator:        validator.New(),
		defaultGamesBack: cfg.DefaultGamesBack,
		seasons:          cfg.Seasons,
		picks:            cfg.Picks,
	}
}
