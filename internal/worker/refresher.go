package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

// Prometheus metrics
var (
	refreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lines_picks_refresh_runs_total",
		Help: "Total number of picks refresher runs by outcome",
	}, []string{"status"})

	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lines_picks_refresh_duration_seconds",
		Help:    "Duration of a full realistic picks search",
		Buckets: prometheus.DefBuckets,
	})

	snapshotPicks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lines_picks_snapshot_picks",
		Help: "Number of picks in the latest stored snapshot",
	})
)

// SnapshotStore persists refresher output
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.PicksSnapshot) error
}

// RefresherConfig configures the picks refresher
type RefresherConfig struct {
	Service    logic.LineAnalysisService
	Exclusions logic.ExclusionProvider
	Snapshots  SnapshotStore
	Query      models.PicksQuery
	Interval   time.Duration
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Refresher periodically recomputes the realistic picks and stores a snapshot
type Refresher struct {
	config RefresherConfig
	logger *zap.SugaredLogger
	wg     sync.WaitGroup
	cancel context.CancelFunc
	now    func() time.Time
}

func NewRefresher(cfg RefresherConfig) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Refresher{
		config: cfg,
		logger: cfg.Logger.Sugar(),
		now:    time.Now,
	}
}

// Start runs one refresh immediately, then one per interval until Stop
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.config.Interval)
		defer ticker.Stop()

		for {
			r.run(ctx)
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	r.logger.Infow("Picks refresher started", "interval", r.config.Interval)
}

// Stop cancels any in-flight refresh and waits for the loop to exit
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.logger.Info("Stopping picks refresher...")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("Picks refresher stopped")
}

func (r *Refresher) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	if _, err := r.RunOnce(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		r.logger.Errorw("Picks refresh failed", "error", err)
	}
}

// RunOnce computes and stores one snapshot
func (r *Refresher) RunOnce(ctx context.Context) (*models.PicksSnapshot, error) {
	start := r.now()

	exclusions, err := r.config.Exclusions.ExcludedPlayers(ctx)
	if err != nil {
		refreshRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	report, err := r.config.Service.FindRealisticPicks(ctx, r.config.Query, exclusions)
	if err != nil {
		refreshRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	elapsed := r.now().Sub(start)
	snap := &models.PicksSnapshot{
		ID:          uuid.New().String(),
		GeneratedAt: start.UTC(),
		Duration:    elapsed.String(),
		Report:      report,
	}
	if err := r.config.Snapshots.Save(ctx, snap); err != nil {
		refreshRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	refreshRuns.WithLabelValues("ok").Inc()
	refreshDuration.Observe(elapsed.Seconds())
	snapshotPicks.Set(float64(report.Count))

	r.logger.Infow("Picks snapshot stored",
		"id", snap.ID,
		"picks", report.Count,
		"qualifying", report.TotalQualifying,
		"excluded", report.ExcludedPlayers,
		"duration", elapsed,
	)
	return snap, nil
}
