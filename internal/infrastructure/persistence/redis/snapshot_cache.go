package redis

import (
	"context"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
)

// SnapshotCache caches progress snapshots on top of the generic Cache.
type SnapshotCache struct {
	cache *Cache
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(cache *Cache) *SnapshotCache {
	return &SnapshotCache{cache: cache}
}

// Get returns the cached snapshot for the identifier.
// Returns ErrCacheMiss when no copy is cached.
func (s *SnapshotCache) Get(ctx context.Context, userID string) (*progress.Snapshot, error) {
	var snap progress.Snapshot
	if err := s.cache.Get(ctx, SnapshotKey(userID), &snap); err != nil {
		return nil, err
	}
	snap.Normalize()
	return &snap, nil
}

// Set caches the snapshot for the identifier with the standard TTL.
func (s *SnapshotCache) Set(ctx context.Context, userID string, snap *progress.Snapshot) error {
	if snap == nil {
		return nil
	}
	return s.cache.Set(ctx, SnapshotKey(userID), snap, TTLSnapshotCache)
}

// Delete evicts the identifier's cached snapshot.
func (s *SnapshotCache) Delete(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, SnapshotKey(userID))
}

// Ping checks if the underlying Redis connection is reachable.
func (s *SnapshotCache) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// Close closes the underlying Redis connection.
func (s *SnapshotCache) Close() error {
	return s.cache.Close()
}
