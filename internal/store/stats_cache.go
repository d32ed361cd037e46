package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
	"nagarik-sewa/internal/models"
)

const (
	officeStatsPrefix    = "stats:office:"
	hierarchyStatsPrefix = "stats:hierarchy:"
	hierarchyIndexKey    = "stats:hierarchy:keys"
)

// StatsCache is a cache-aside layer for dashboard aggregates. Redis failures degrade to
// cache misses; a nil client disables caching.
type StatsCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl, logger: logger.ForComponent(log, "stats-cache")}
}

func (c *StatsCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

func (c *StatsCache) GetOffice(ctx context.Context, office models.Office) (*models.OfficeStats, bool) {
	var out models.OfficeStats
	if !c.get(ctx, "office", officeStatsPrefix+office.ID(), &out) {
		return nil, false
	}
	return &out, true
}

func (c *StatsCache) SetOffice(ctx context.Context, office models.Office, stats *models.OfficeStats) {
	if !c.enabled() {
		return
	}
	c.set(ctx, c.rdb, officeStatsPrefix+office.ID(), stats)
}

func (c *StatsCache) GetHierarchy(ctx context.Context, monitorID string) (*models.HierarchyStats, bool) {
	var out models.HierarchyStats
	if !c.get(ctx, "hierarchy", hierarchyStatsPrefix+monitorID, &out) {
		return nil, false
	}
	return &out, true
}

// SetHierarchy stores the monitor's stats and remembers the key for invalidation.
func (c *StatsCache) SetHierarchy(ctx context.Context, monitorID string, stats *models.HierarchyStats) {
	if !c.enabled() {
		return
	}
	key := hierarchyStatsPrefix + monitorID
	pipe := c.rdb.TxPipeline()
	c.set(ctx, pipe, key, stats)
	pipe.SAdd(ctx, hierarchyIndexKey, key)
	pipe.Expire(ctx, hierarchyIndexKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("failed to cache hierarchy stats", map[string]interface{}{"error": err, "key": key})
	}
}

// InvalidateOffice drops the office aggregate and every hierarchy aggregate, since any
// monitor may observe the office.
func (c *StatsCache) InvalidateOffice(ctx context.Context, office models.Office) {
	if !c.enabled() {
		return
	}
	keys, err := c.rdb.SMembers(ctx, hierarchyIndexKey).Result()
	if err != nil && err != redis.Nil {
		c.logger.Warn("failed to read hierarchy cache index", map[string]interface{}{"error": err})
	}
	keys = append(keys, officeStatsPrefix+office.ID(), hierarchyIndexKey)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("failed to invalidate stats cache", map[string]interface{}{"error": err, "office": office.ID()})
	}
}

func (c *StatsCache) get(ctx context.Context, scope, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", map[string]interface{}{"error": err, "key": key})
		}
		metrics.StatsCacheLookups.WithLabelValues(scope, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("discarding corrupt stats cache entry", map[string]interface{}{"error": err, "key": key})
		metrics.StatsCacheLookups.WithLabelValues(scope, "miss").Inc()
		return false
	}
	metrics.StatsCacheLookups.WithLabelValues(scope, "hit").Inc()
	return true
}

func (c *StatsCache) set(ctx context.Context, cmd redis.Cmdable, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode stats for cache", map[string]interface{}{"error": err, "key": key})
		return
	}
	if err := cmd.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache stats", map[string]interface{}{"error": err, "key": key})
	}
}
