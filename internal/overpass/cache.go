package overpass

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL for cached road geometry.
	DefaultTTL = time.Hour

	// DefaultMaxEntries bounds the cache; exceeding it evicts the oldest
	// half of the entries in one pass.
	DefaultMaxEntries = 50

	// bboxPrecision rounds bounding-box coordinates before hashing so
	// near-duplicate viewport requests collapse onto one key (~110 m).
	bboxPrecision = 3
)

type cacheEntry struct {
	result     json.RawMessage
	insertedAt time.Time
}

type cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
	now     func() time.Time
}

func newCache(ttl time.Duration, max int) *cache {
	return &cache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// CacheKey hashes the bbox parameters rounded to fixed precision.
// Collapsing nearby viewports is deliberate coarsening, not a bug.
func CacheKey(bbox string) string {
	parts := strings.Split(bbox, ",")
	rounded := make([]string, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			rounded[i] = strings.TrimSpace(p)
			continue
		}
		rounded[i] = strconv.FormatFloat(round(v, bboxPrecision), 'f', -1, 64)
	}
	sum := md5.Sum([]byte(strings.Join(rounded, ",")))
	return hex.EncodeToString(sum[:])
}

func round(v float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	return math.Round(v*shift) / shift
}

// get returns (value, fresh, present). A present-but-stale value is the
// fallback candidate when every mirror fails.
func (c *cache) get(key string) (json.RawMessage, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return entry.result, c.now().Sub(entry.insertedAt) < c.ttl, true
}

func (c *cache) put(key string, result json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: result, insertedAt: c.now()}

	if len(c.entries) <= c.max {
		return
	}

	// Over the ceiling: drop the oldest half by insertion time in one
	// batch. Insertion time is the sole priority key, not access order.
	type aged struct {
		key string
		at  time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, at: e.insertedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	for _, a := range all[:len(all)/2] {
		delete(c.entries, a.key)
	}
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *cache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats describes the cache for the operational endpoints.
type Stats struct {
	Size       int      `json:"cache_size"`
	TTLSeconds int      `json:"cache_ttl_seconds"`
	Keys       []string `json:"cached_areas,omitempty"`
}

func (c *cache) stats(withKeys bool) Stats {
	s := Stats{
		Size:       c.len(),
		TTLSeconds: int(c.ttl / time.Second),
	}
	if withKeys {
		s.Keys = c.keys()
	}
	return s
}
