// Package cache provides an optional Redis-backed cache of serviceability
// verdicts. Queries within the same geohash cell and order amount share a
// verdict for a short TTL. Disabled when no Redis client is configured,
// mirroring the repository's database-less fallback mode.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
	"github.com/dastarkhwan/backend/pkg/utils"
)

// VerdictCache caches check results keyed by geohash cell and order
// amount. Any catalog mutation bumps an in-process generation counter,
// which invalidates every previously written key at once.
type VerdictCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	precision int
	gen       atomic.Int64
}

// New creates a verdict cache. A nil client yields a disabled cache
// whose methods are safe no-ops.
func New(rdb *redis.Client, ttl time.Duration, precision int) *VerdictCache {
	return &VerdictCache{
		rdb:       rdb,
		ttl:       ttl,
		precision: int(utils.Clamp(float64(precision), 4, 8)),
	}
}

// Enabled reports whether a Redis client is configured
func (c *VerdictCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *VerdictCache) key(query domain.Coordinate, orderAmount float64) string {
	return fmt.Sprintf("svc:%d:%s:%.2f", c.gen.Load(), geo.Geohash(query, c.precision), orderAmount)
}

// Get returns a cached verdict for the query's geohash cell
func (c *VerdictCache) Get(ctx context.Context, query domain.Coordinate, orderAmount float64) (domain.ServiceabilityResult, bool) {
	if !c.Enabled() {
		return domain.ServiceabilityResult{}, false
	}
	raw, err := c.rdb.Get(ctx, c.key(query, orderAmount)).Bytes()
	if err != nil {
		return domain.ServiceabilityResult{}, false
	}
	var res domain.ServiceabilityResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.ServiceabilityResult{}, false
	}
	return res, true
}

// Set stores a verdict for the query's geohash cell
func (c *VerdictCache) Set(ctx context.Context, query domain.Coordinate, orderAmount float64, res domain.ServiceabilityResult) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(query, orderAmount), raw, c.ttl)
}

// Invalidate discards all cached verdicts by bumping the generation.
// Stale keys expire via TTL.
func (c *VerdictCache) Invalidate() {
	if c == nil {
		return
	}
	c.gen.Add(1)
}
