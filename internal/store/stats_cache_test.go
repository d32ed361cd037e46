package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nagarik-sewa/internal/aggregation"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStatsCache(rdb, ttl, logger.NewTestLogger(t)), mr
}

func TestStatsCache_OfficeRoundTrip(t *testing.T) {
	cache, mr := newMiniredisCache(t, 30*time.Second)
	ctx := context.Background()

	_, ok := cache.GetOffice(ctx, ward10)
	assert.False(t, ok)

	stats := aggregation.ForOffice(ward10, nil)
	stats.Total = 4
	cache.SetOffice(ctx, ward10, &stats)

	got, ok := cache.GetOffice(ctx, ward10)
	require.True(t, ok)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, ward10.ID(), got.OfficeID)

	mr.FastForward(31 * time.Second)
	_, ok = cache.GetOffice(ctx, ward10)
	assert.False(t, ok)
}

func TestStatsCache_InvalidateDropsOfficeAndHierarchies(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	office := aggregation.ForOffice(ward10, nil)
	cache.SetOffice(ctx, ward10, &office)
	cache.SetHierarchy(ctx, "mon-1", &models.HierarchyStats{MonitorOffice: "Kaski DAO", TotalSubordinates: 3})
	cache.SetHierarchy(ctx, "mon-2", &models.HierarchyStats{MonitorOffice: "Gandaki Province Office"})

	got, ok := cache.GetHierarchy(ctx, "mon-1")
	require.True(t, ok)
	assert.Equal(t, 3, got.TotalSubordinates)

	cache.InvalidateOffice(ctx, ward10)

	_, ok = cache.GetOffice(ctx, ward10)
	assert.False(t, ok)
	_, ok = cache.GetHierarchy(ctx, "mon-1")
	assert.False(t, ok)
	_, ok = cache.GetHierarchy(ctx, "mon-2")
	assert.False(t, ok)
	assert.False(t, mr.Exists(hierarchyIndexKey))
}

func TestStatsCache_CorruptEntryIsMiss(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	require.NoError(t, mr.Set(officeStatsPrefix+ward10.ID(), "{not json"))

	_, ok := cache.GetOffice(context.Background(), ward10)
	assert.False(t, ok)
}

func TestStatsCache_Disabled(t *testing.T) {
	var nilCache *StatsCache
	_, ok := nilCache.GetOffice(context.Background(), ward10)
	assert.False(t, ok)

	noClient := NewStatsCache(nil, time.Minute, logger.NewNoOpLogger())
	noClient.SetOffice(context.Background(), ward10, &models.OfficeStats{})
	noClient.InvalidateOffice(context.Background(), ward10)
	_, ok = noClient.GetOffice(context.Background(), ward10)
	assert.False(t, ok)
}

func TestStatsCache_RedisErrorsDegradeToMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewStatsCache(rdb, time.Minute, logger.NewTestLogger(t))
	key := officeStatsPrefix + ward10.ID()

	mock.ExpectGet(key).SetErr(fmt.Errorf("READONLY replica"))
	_, ok := cache.GetOffice(context.Background(), ward10)
	assert.False(t, ok)

	mock.ExpectGet(key).RedisNil()
	_, ok = cache.GetOffice(context.Background(), ward10)
	assert.False(t, ok)

	mock.ExpectSMembers(hierarchyIndexKey).SetErr(fmt.Errorf("connection refused"))
	mock.ExpectDel(key, hierarchyIndexKey).SetErr(fmt.Errorf("connection refused"))
	cache.InvalidateOffice(context.Background(), ward10)

	assert.NoError(t, mock.ExpectationsWereMet())
}
