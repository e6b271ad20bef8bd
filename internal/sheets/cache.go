package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTTL keeps reads within the upstream per-minute quota under
	// expected concurrent load.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries bounds the cache; inserting past it evicts the
	// single oldest entry.
	DefaultMaxEntries = 20
)

type cacheEntry struct {
	rows       [][]string
	insertedAt time.Time
}

// ReadCache is a read-through TTL cache in front of the tabular source.
// The source enforces a hard per-minute request ceiling; the cache
// guarantees at most one upstream fetch per unique key per TTL window
// regardless of call volume.
type ReadCache struct {
	mu         sync.Mutex
	fetcher    Fetcher
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	logger     *zap.SugaredLogger
	now        func() time.Time
}

type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

func NewReadCache(fetcher Fetcher, cfg CacheConfig, logger *zap.SugaredLogger) *ReadCache {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}

	return &ReadCache{
		fetcher:    fetcher,
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		entries:    make(map[string]cacheEntry),
		logger:     logger,
		now:        time.Now,
	}
}

func cacheKey(spreadsheetID, readRange string, sheetGID *int64) string {
	gid := "-"
	if sheetGID != nil {
		gid = strconv.FormatInt(*sheetGID, 10)
	}
	return spreadsheetID + ":" + gid + ":" + readRange
}

// Get returns the cached rows for (spreadsheetID, sheetGID, readRange),
// fetching from the source when the entry is missing or has aged past the
// TTL. The mutex is held across the fetch on purpose: concurrent misses
// on the same key must still produce exactly one upstream request.
func (c *ReadCache) Get(ctx context.Context, spreadsheetID, readRange string, sheetGID *int64) ([][]string, error) {
	key := cacheKey(spreadsheetID, readRange, sheetGID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		if c.now().Sub(entry.insertedAt) < c.ttl {
			return entry.rows, nil
		}
	}

	rows, err := c.fetcher.ReadRange(ctx, spreadsheetID, readRange, sheetGID)
	if err != nil {
		c.logger.Errorw("sheets fetch failed", "spreadsheet_id", spreadsheetID, "range", readRange, "error", err)
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	c.entries[key] = cacheEntry{rows: rows, insertedAt: c.now()}
	c.evictOldestLocked()

	return rows, nil
}

// evictOldestLocked drops the single oldest entry once the ceiling is
// exceeded. One at a time: entries expire on their own, the ceiling only
// guards against unbounded growth.
func (c *ReadCache) evictOldestLocked() {
	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.insertedAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.insertedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *ReadCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ReadCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// EntryInfo describes one cache entry for the debug endpoints.
type EntryInfo struct {
	Key          string  `json:"key"`
	AgeSeconds   float64 `json:"age_seconds"`
	TTLRemaining float64 `json:"ttl_remaining_seconds"`
	Valid        bool    `json:"is_valid"`
	RowCount     int     `json:"data_size"`
}

func (c *ReadCache) Stats() []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	infos := make([]EntryInfo, 0, len(c.entries))
	for key, entry := range c.entries {
		age := now.Sub(entry.insertedAt)
		infos = append(infos, EntryInfo{
			Key:          key,
			AgeSeconds:   age.Seconds(),
			TTLRemaining: (c.ttl - age).Seconds(),
			Valid:        age < c.ttl,
			RowCount:     len(entry.rows),
		})
	}
	return infos
}

func (c *ReadCache) TTL() time.Duration {
	return c.ttl
}
