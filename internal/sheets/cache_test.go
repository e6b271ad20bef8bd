package sheets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	calls int
	rows  [][]string
	err   error
}

func (f *fakeFetcher) ReadRange(ctx context.Context, spreadsheetID, readRange string, sheetGID *int64) ([][]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func newTestCache(fetcher Fetcher, cfg CacheConfig) *ReadCache {
	return NewReadCache(fetcher, cfg, zap.NewNop().Sugar())
}

func TestReadCacheSingleFetchPerKey(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{{"a", "b"}}}
	cache := newTestCache(fetcher, CacheConfig{})

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rows, err := cache.Get(ctx, "sheet-1", "A1:K1500", nil)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b"}}, rows)
	}

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, cache.Len())
}

func TestReadCacheKeyIncludesGID(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{{"x"}}}
	cache := newTestCache(fetcher, CacheConfig{})

	ctx := context.Background()
	gid := int64(42)

	_, err := cache.Get(ctx, "sheet-1", "A1:B2", nil)
	require.NoError(t, err)
	_, err = cache.Get(ctx, "sheet-1", "A1:B2", &gid)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, 2, cache.Len())
}

func TestReadCacheTTLExpiry(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{{"a"}}}
	cache := newTestCache(fetcher, CacheConfig{TTL: 5 * time.Minute})

	current := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return current }

	ctx := context.Background()

	_, err := cache.Get(ctx, "sheet-1", "A1:B2", nil)
	require.NoError(t, err)

	// One second under the TTL still serves the cached rows.
	current = current.Add(5*time.Minute - time.Second)
	_, err = cache.Get(ctx, "sheet-1", "A1:B2", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	// At the TTL boundary the entry is no longer fresh.
	current = current.Add(time.Second)
	_, err = cache.Get(ctx, "sheet-1", "A1:B2", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestReadCacheEvictsSingleOldest(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{{"a"}}}
	cache := newTestCache(fetcher, CacheConfig{MaxEntries: 3})

	current := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return current }

	ctx := context.Background()

	for i := 0; i < 4; i++ {
		current = current.Add(time.Second)
		_, err := cache.Get(ctx, fmt.Sprintf("sheet-%d", i), "A1:B2", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, cache.Len())

	// The oldest entry is gone; re-reading it fetches again.
	calls := fetcher.calls
	_, err := cache.Get(ctx, "sheet-0", "A1:B2", nil)
	require.NoError(t, err)
	assert.Equal(t, calls+1, fetcher.calls)

	// The newest entry is still cached.
	calls = fetcher.calls
	_, err = cache.Get(ctx, "sheet-3", "A1:B2", nil)
	require.NoError(t, err)
	assert.Equal(t, calls, fetcher.calls)
}

func TestReadCacheFetchErrorNotCached(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("quota exceeded")}
	cache := newTestCache(fetcher, CacheConfig{})

	ctx := context.Background()

	_, err := cache.Get(ctx, "sheet-1", "A1:B2", nil)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// A later call retries instead of serving a cached failure.
	fetcher.err = nil
	fetcher.rows = [][]string{{"ok"}}
	rows, err := cache.Get(ctx, "sheet-1", "A1:B2", nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ok"}}, rows)
}

func TestReadCacheStats(t *testing.T) {
	fetcher := &fakeFetcher{rows: [][]string{{"a"}, {"b"}}}
	cache := newTestCache(fetcher, CacheConfig{})

	_, err := cache.Get(context.Background(), "sheet-1", "A1:B2", nil)
	require.NoError(t, err)

	stats := cache.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "sheet-1:-:A1:B2", stats[0].Key)
	assert.True(t, stats[0].Valid)
	assert.Equal(t, 2, stats[0].RowCount)
}
