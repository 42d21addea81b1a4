package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crmdesk/ticketd/internal/domain"
)

const statsCacheKey = "ticketd:stats"

// StatsCache keeps the dashboard ticket counters in Redis so the
// O(n) status scan does not hit Postgres on every dashboard refresh.
// All methods degrade to cache misses when Redis is unavailable.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsCache builds a cache over the shared Redis client.
func NewStatsCache(r *Redis, ttl time.Duration, logger *zap.Logger) *StatsCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &StatsCache{client: r.Client, ttl: ttl, logger: logger}
}

// Get returns cached stats, or nil on miss or error.
func (c *StatsCache) Get(ctx context.Context) *domain.TicketStats {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("stats cache get failed", zap.Error(err))
		}
		return nil
	}
	var stats domain.TicketStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

// Set stores stats with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, stats *domain.TicketStats) {
	if c == nil || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("stats cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached entry after any ticket mutation.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, statsCacheKey).Err(); err != nil {
		c.logger.Debug("stats cache invalidate failed", zap.Error(err))
	}
}
