package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

const exclusionKeyPrefix = "lines:exclusions:"

func exclusionKey(reason string) string {
	return exclusionKeyPrefix + reason
}

func checkReason(reason string) error {
	if !models.ValidExclusionReason(reason) {
		return fmt.Errorf("%w: unknown exclusion reason %q", logic.ErrInvalidParameter, reason)
	}
	return nil
}

// RedisExclusionStore keeps one Redis set of player IDs per reason
type RedisExclusionStore struct {
	rdb *redis.Client
}

func NewRedisExclusionStore(rdb *redis.Client) *RedisExclusionStore {
	return &RedisExclusionStore{rdb: rdb}
}

func (s *RedisExclusionStore) Add(ctx context.Context, e models.ExclusionEntry) error {
	if err := checkReason(e.Reason); err != nil {
		return err
	}
	if err := s.rdb.SAdd(ctx, exclusionKey(e.Reason), e.PlayerID).Err(); err != nil {
		return fmt.Errorf("%w: add exclusion: %w", logic.ErrDataSourceUnavailable, err)
	}
	return nil
}

// Remove reports whether the entry existed
func (s *RedisExclusionStore) Remove(ctx context.Context, e models.ExclusionEntry) (bool, error) {
	if err := checkReason(e.Reason); err != nil {
		return false, err
	}
	n, err := s.rdb.SRem(ctx, exclusionKey(e.Reason), e.PlayerID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: remove exclusion: %w", logic.ErrDataSourceUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisExclusionStore) List(ctx context.Context) ([]models.ExclusionEntry, error) {
	out := make([]models.ExclusionEntry, 0)
	for _, reason := range models.ExclusionReasons {
		ids, err := s.rdb.SMembers(ctx, exclusionKey(reason)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: list %s exclusions: %w", logic.ErrDataSourceUnavailable, reason, err)
		}
		for _, id := range ids {
			out = append(out, models.ExclusionEntry{PlayerID: id, Reason: reason})
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *RedisExclusionStore) ExcludedPlayers(ctx context.Context) (models.ExclusionSet, error) {
	keys := make([]string, len(models.ExclusionReasons))
	for i, reason := range models.ExclusionReasons {
		keys[i] = exclusionKey(reason)
	}
	ids, err := s.rdb.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: read exclusions: %w", logic.ErrDataSourceUnavailable, err)
	}
	return models.NewExclusionSet(ids...), nil
}

// MemoryExclusionStore is the in-process exclusion store used without Redis
type MemoryExclusionStore struct {
	mu      sync.RWMutex
	entries map[models.ExclusionEntry]struct{}
}

// NewMemoryExclusionStore seeds the store with manual exclusions
func NewMemoryExclusionStore(manual ...string) *MemoryExclusionStore {
	s := &MemoryExclusionStore{entries: make(map[models.ExclusionEntry]struct{})}
	for _, id := range manual {
		if id != "" {
			s.entries[models.ExclusionEntry{PlayerID: id, Reason: models.ExclusionManual}] = struct{}{}
		}
	}
	return s
}

func (s *MemoryExclusionStore) Add(ctx context.Context, e models.ExclusionEntry) error {
	if err := checkReason(e.Reason); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[e] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *MemoryExclusionStore) Remove(ctx context.Context, e models.ExclusionEntry) (bool, error) {
	if err := checkReason(e.Reason); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[e]
	delete(s.entries, e)
	return ok, nil
}

func (s *MemoryExclusionStore) List(ctx context.Context) ([]models.ExclusionEntry, error) {
	s.mu.RLock()
	out := make([]models.ExclusionEntry, 0, len(s.entries))
	for e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sortEntries(out)
	return out, nil
}

func (s *MemoryExclusionStore) ExcludedPlayers(ctx context.Context) (models.ExclusionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(models.ExclusionSet, len(s.entries))
	for e := range s.entries {
		set[e.PlayerID] = struct{}{}
	}
	return set, nil
}

func sortEntries(entries []models.ExclusionEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Reason != entries[j].Reason {
			return entries[i].Reason < entries[j].Reason
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}

// SeedRedisExclusions writes manual exclusions into Redis
func SeedRedisExclusions(ctx context.Context, s *RedisExclusionStore, manual []string) error {
	for _, id := range manual {
		if err := s.Add(ctx, models.ExclusionEntry{PlayerID: id, Reason: models.ExclusionManual}); err != nil {
			return err
		}
	}
	return nil
}
