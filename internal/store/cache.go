package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

const cacheKeyPrefix = "lines:cache:"

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lines_source_cache_hits_total",
		Help: "Observation source reads served from Redis",
	}, []string{"kind"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lines_source_cache_misses_total",
		Help: "Observation source reads that fell through to the backing store",
	}, []string{"kind"})
)

// CachedSource is a read-through Redis cache in front of another source.
// Redis failures are logged and bypassed; errors are never cached.
type CachedSource struct {
	next   logic.ObservationSource
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedSource(next logic.ObservationSource, rdb *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedSource {
	return &CachedSource{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedSource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	key := cacheKeyPrefix + "player:" + id
	var p models.Player
	if c.get(ctx, "player", key, &p) {
		return &p, nil
	}
	res, err := c.next.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *CachedSource) GetRecentObservations(ctx context.Context, q models.ObservationQuery) ([]models.Observation, error) {
	key := observationsKey(q)
	var obs []models.Observation
	if c.get(ctx, "observations", key, &obs) {
		return obs, nil
	}
	res, err := c.next.GetRecentObservations(ctx, q)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *CachedSource) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	key := fmt.Sprintf("%splayers:%s:%s:%s:%d", cacheKeyPrefix,
		strings.ToUpper(f.Position), strings.ToUpper(f.Team), strings.ToLower(f.Query), f.Limit)
	var players []models.Player
	if c.get(ctx, "players", key, &players) {
		return players, nil
	}
	res, err := c.next.ListPlayers(ctx, f)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *CachedSource) get(ctx context.Context, kind, key string, dest interface{}) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		cacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	if err != nil {
		c.logger.Warnw("Cache read failed", "key", key, "error", err)
		cacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		c.logger.Warnw("Discarding corrupt cache entry", "key", key, "error", err)
		c.rdb.Del(ctx, key)
		cacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	cacheHits.WithLabelValues(kind).Inc()
	return true
}

func (c *CachedSource) set(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Warnw("Failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warnw("Cache write failed", "key", key, "error", err)
	}
}

func observationsKey(q models.ObservationQuery) string {
	seasons := make([]string, len(q.Seasons))
	for i, s := range q.Seasons {
		seasons[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("%sobs:%s:%s:%d:%s", cacheKeyPrefix, q.PlayerID, q.Stat, q.GamesBack, strings.Join(seasons, ","))
}
