package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/config"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (SnapshotCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSnapshotCache(client, ttl), server
}

func revenueSnapshot(weekKey string, revenue float64) *domain.WeeklyMetricSnapshot {
	s := domain.NewWeeklyMetricSnapshot("biz-1", "user-1", weekKey)
	s.Revenue = &revenue
	s.CustomKPIs["nps"] = 40
	return s
}

func TestRedisSnapshotCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	_, hit, err := c.Get(ctx, "biz-1")
	require.NoError(t, err)
	assert.False(t, hit)

	snapshots := []*domain.WeeklyMetricSnapshot{
		revenueSnapshot("2024-04-05", 1000),
		revenueSnapshot("2024-04-12", 2000),
	}
	require.NoError(t, c.Set(ctx, "biz-1", snapshots))

	cached, hit, err := c.Get(ctx, "biz-1")
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, cached, 2)
	assert.Equal(t, "2024-04-12", cached[1].WeekKey)
	assert.Equal(t, 2000.0, *cached[1].Revenue)
	assert.Nil(t, cached[1].Leads)
	assert.Equal(t, 40.0, cached[0].CustomKPIs["nps"])

	_, hit, err = c.Get(ctx, "biz-2")
	require.NoError(t, err)
	assert.False(t, hit, "chaves separadas por negócio")
}

func TestRedisSnapshotCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "biz-1", []*domain.WeeklyMetricSnapshot{revenueSnapshot("2024-04-05", 1)}))
	require.NoError(t, c.Invalidate(ctx, "biz-1"))

	_, hit, err := c.Get(ctx, "biz-1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisSnapshotCache_Expires(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t, 30*time.Second)

	require.NoError(t, c.Set(ctx, "biz-1", []*domain.WeeklyMetricSnapshot{revenueSnapshot("2024-04-05", 1)}))
	assert.Equal(t, 30*time.Second, server.TTL(key("biz-1")))

	server.FastForward(31 * time.Second)

	_, hit, err := c.Get(ctx, "biz-1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisSnapshotCache_CorruptedEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t, time.Minute)

	require.NoError(t, server.Set(key("biz-1"), "{not json"))

	_, hit, err := c.Get(ctx, "biz-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, server.Exists(key("biz-1")))
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, config.Redis{})
	require.NoError(t, err)
	assert.Nil(t, client)

	server := miniredis.RunT(t)
	client, err = NewClient(ctx, config.Redis{Addr: server.Addr()})
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()
}

func TestNoopSnapshotCache(t *testing.T) {
	var c SnapshotCache = NoopSnapshotCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "biz-1", nil))
	_, hit, err := c.Get(ctx, "biz-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, "biz-1"))
}
