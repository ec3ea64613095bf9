package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	records []core.Record
	err     error
	calls   int
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) FetchCategory(_ context.Context, category core.Category) ([]core.Record, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []core.Record
	for _, r := range s.records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *countingSource) FetchAll(_ context.Context) ([]core.Record, error) {
	s.calls++
	return s.records, s.err
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestCachedSource_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	inner := &countingSource{records: []core.Record{
		{ID: 1, Name: "Hotel Condal", Category: core.CategoryAccommodation, Benefits: []string{"Desayuno"}},
		{ID: 2, Name: "Bufete", Category: core.CategoryLegalAndFinancial},
	}}

	cache, err := NewCachedSource(inner, rdb, WithTTL(time.Minute))
	require.NoError(t, err)

	first, err := cache.FetchCategory(ctx, core.CategoryAccommodation)
	require.NoError(t, err)
	second, err := cache.FetchCategory(ctx, core.CategoryAccommodation)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, mr.Exists("concierge:directory:cat:Accommodation"))

	mr.FastForward(2 * time.Minute)
	_, err = cache.FetchCategory(ctx, core.CategoryAccommodation)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "expired entries reload")
}

func TestCachedSource_EmptyNotCached(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	inner := &countingSource{}

	cache, err := NewCachedSource(inner, rdb)
	require.NoError(t, err)

	records, err := cache.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, mr.Exists("concierge:directory:all"))
}

func TestCachedSource_InnerError(t *testing.T) {
	_, rdb := setupRedis(t)
	cache, err := NewCachedSource(&countingSource{err: storage.ErrSourceUnavailable}, rdb)
	require.NoError(t, err)

	_, err = cache.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestCachedSource_RedisDown(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingSource{records: []core.Record{{ID: 1, Name: "A", Category: core.CategoryRetail}}}
	cache, err := NewCachedSource(inner, rdb)
	require.NoError(t, err)

	mr.Close()
	records, err := cache.FetchAll(context.Background())
	require.NoError(t, err, "cache failures fall through")
	assert.Len(t, records, 1)
}

func TestCachedSource_CorruptEntry(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set("concierge:directory:all", "garbage"))
	inner := &countingSource{records: []core.Record{{ID: 1, Name: "A", Category: core.CategoryRetail}}}
	cache, err := NewCachedSource(inner, rdb)
	require.NoError(t, err)

	records, err := cache.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSource_Invalidate(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	inner := &countingSource{records: []core.Record{{ID: 1, Name: "A", Category: core.CategoryRetail}}}
	cache, err := NewCachedSource(inner, rdb)
	require.NoError(t, err)

	_, err = cache.FetchAll(ctx)
	require.NoError(t, err)
	_, err = cache.FetchCategory(ctx, core.CategoryRetail)
	require.NoError(t, err)
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("concierge:directory:all"))
	assert.False(t, mr.Exists("concierge:directory:cat:Retail"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestNewCachedSource_Validation(t *testing.T) {
	_, rdb := setupRedis(t)
	_, err := NewCachedSource(nil, rdb)
	assert.ErrorIs(t, err, storage.ErrNoSources)

	_, err = NewCachedSource(&countingSource{}, nil)
	assert.Error(t, err)

	_, err = NewCachedSource(&countingSource{}, rdb, WithTTL(0))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrNoSources))
}
