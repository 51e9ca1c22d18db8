package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dastarkhwan/backend/internal/domain"
)

func TestDisabledCacheIsSafe(t *testing.T) {
	c := New(nil, time.Minute, 6)
	assert.False(t, c.Enabled())

	query := domain.Coordinate{Lat: 31.505, Lng: 74.355}
	_, ok := c.Get(context.Background(), query, 800)
	assert.False(t, ok)

	// no-ops, must not panic
	c.Set(context.Background(), query, 800, domain.ServiceabilityResult{InService: true})
	c.Invalidate()

	var nilCache *VerdictCache
	assert.False(t, nilCache.Enabled())
	_, ok = nilCache.Get(context.Background(), query, 800)
	assert.False(t, ok)
	nilCache.Set(context.Background(), query, 800, domain.ServiceabilityResult{})
	nilCache.Invalidate()
}

func TestKeyGenerationAndPrecisionClamp(t *testing.T) {
	c := New(nil, time.Minute, 12)
	assert.Equal(t, 8, c.precision, "precision is clamped to the geohash range")

	query := domain.Coordinate{Lat: 31.505, Lng: 74.355}
	before := c.key(query, 800)
	assert.Contains(t, before, "svc:0:")
	assert.Contains(t, before, ":800.00")

	farAway := domain.Coordinate{Lat: 24.86, Lng: 67.00}
	assert.NotEqual(t, before, c.key(farAway, 800))
	assert.NotEqual(t, before, c.key(query, 1200))

	c.Invalidate()
	assert.NotEqual(t, before, c.key(query, 800), "generation bump changes every key")
	assert.Contains(t, c.key(query, 800), "svc:1:")
}
