package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

const snapshotKey = "leregard:planning:snapshot"

// ErrNoSnapshot means no appointment snapshot was cached yet; the fallback
// conflict check has nothing to work with.
var ErrNoSnapshot = errors.New("availability: no snapshot cached")

// SnapshotCache keeps the last fetched appointment list so the conflict
// check can degrade gracefully when the live endpoint is unreachable. The
// snapshot is overlay data only; it is never mutated locally.
type SnapshotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewSnapshotCache constructs the cache. ttl bounds staleness: a fallback
// answer computed from data older than ttl is worse than no answer.
func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *SnapshotCache {
	if rdb == nil {
		panic("availability: redis client required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl, logger: logger.Component("snapshot")}
}

// Store replaces the cached appointment list.
func (c *SnapshotCache) Store(ctx context.Context, appointments []api.Appointment) error {
	raw, err := json.Marshal(appointments)
	if err != nil {
		return fmt.Errorf("availability: marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability: store snapshot: %w", err)
	}
	return nil
}

// Load returns the cached appointment list.
func (c *SnapshotCache) Load(ctx context.Context) ([]api.Appointment, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("availability: load snapshot: %w", err)
	}
	var appointments []api.Appointment
	if err := json.Unmarshal([]byte(raw), &appointments); err != nil {
		return nil, fmt.Errorf("availability: decode snapshot: %w", err)
	}
	return appointments, nil
}
