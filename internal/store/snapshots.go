package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pagepicks/lines-api/internal/models"
)

const latestPicksKey = "lines:picks:latest"

// RedisSnapshotStore persists the most recent picks snapshot in Redis
type RedisSnapshotStore struct {
	rdb *redis.Client
}

func NewRedisSnapshotStore(rdb *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap *models.PicksSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal picks snapshot: %w", err)
	}
	return s.rdb.Set(ctx, latestPicksKey, b, 0).Err()
}

// Latest returns nil when no snapshot has been stored yet
func (s *RedisSnapshotStore) Latest(ctx context.Context) (*models.PicksSnapshot, error) {
	b, err := s.rdb.Get(ctx, latestPicksKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap models.PicksSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal picks snapshot: %w", err)
	}
	return &snap, nil
}

type MemorySnapshotStore struct {
	mu     sync.RWMutex
	latest *models.PicksSnapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Save(ctx context.Context, snap *models.PicksSnapshot) error {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Latest(ctx context.Context) (*models.PicksSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, nil
}
