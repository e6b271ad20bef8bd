package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"go.uber.org/zap"
)

// DefaultMirrors are interchangeable Overpass API endpoints answering the
// same query protocol.
var DefaultMirrors = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://overpass.openstreetmap.ru/api/interpreter",
}

type Config struct {
	Mirrors []string
	TTL     time.Duration
	// MaxEntries bounds the result cache.
	MaxEntries int
	// Timeout applies per attempt, not per overall request. Road queries
	// over large areas are slow, so it is generous.
	Timeout time.Duration
	// RateLimitBackoff is the fixed pause before rotating to the next
	// mirror after a 429.
	RateLimitBackoff time.Duration
}

// Client issues road-geometry queries against a rotation of Overpass
// mirrors, caching results and falling back to stale entries when every
// mirror is rate limited or timing out.
type Client struct {
	mirrors []string
	http    *http.Client
	cache   *cache
	backoff time.Duration
	logger  *zap.SugaredLogger
	sleep   func(time.Duration)
}

func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	if len(cfg.Mirrors) == 0 {
		cfg.Mirrors = DefaultMirrors
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.RateLimitBackoff == 0 {
		cfg.RateLimitBackoff = time.Second
	}

	return &Client{
		mirrors: cfg.Mirrors,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   newCache(cfg.TTL, cfg.MaxEntries),
		backoff: cfg.RateLimitBackoff,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

// Query runs an Overpass query for the given bbox, serving fresh cache
// hits without network access. On miss it tries each mirror in rotation;
// rate limits and timeouts degrade to the previous cached value for the
// key when one exists, even an expired one.
func (c *Client) Query(ctx context.Context, bbox, query string) (json.RawMessage, error) {
	key := CacheKey(bbox)

	stale, fresh, present := c.cache.get(key)
	if present && fresh {
		return stale, nil
	}

	attempts := len(c.mirrors)
	for attempt := 0; attempt < attempts; attempt++ {
		mirror := c.mirrors[attempt%len(c.mirrors)]
		last := attempt == attempts-1

		result, retry, err := c.tryMirror(ctx, mirror, query, last)
		if retry {
			continue
		}
		if err != nil {
			if present && isFallbackErr(err) {
				c.logger.Warnw("overpass degraded to stale cache", "key", key, "error", err)
				return stale, nil
			}
			return nil, err
		}

		c.cache.put(key, result)
		return result, nil
	}

	if present {
		c.logger.Warnw("overpass retries exhausted, serving stale cache", "key", key)
		return stale, nil
	}
	return nil, domain.ErrRetriesExhausted
}

// tryMirror returns (result, retry, err). retry=true means rotate to the
// next mirror; a non-retryable error is final for this query.
func (c *Client) tryMirror(ctx context.Context, mirror, query string, last bool) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mirror, strings.NewReader(query))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		// Network failure or per-attempt timeout: next mirror, stale
		// fallback after the last one.
		if last {
			return nil, false, fmt.Errorf("overpass request: %w", domain.ErrUpstreamTimeout)
		}
		return nil, true, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil || !json.Valid(body) {
			if last {
				return nil, false, domain.ErrUpstreamMalformed
			}
			return nil, true, nil
		}
		return json.RawMessage(body), false, nil

	case http.StatusTooManyRequests:
		if last {
			return nil, false, domain.ErrRateLimited
		}
		c.sleep(c.backoff)
		return nil, true, nil

	case http.StatusGatewayTimeout:
		if last {
			return nil, false, domain.ErrUpstreamTimeout
		}
		return nil, true, nil

	default:
		// Non-transient: no further mirrors tried.
		return nil, false, fmt.Errorf("%w: %d", domain.ErrUpstreamStatus, resp.StatusCode)
	}
}

// isFallbackErr reports whether a failure should degrade to the stale
// cached value. Non-transient upstream statuses do not.
func isFallbackErr(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUpstreamTimeout)
}

func (c *Client) CacheStats(withKeys bool) Stats {
	return c.cache.stats(withKeys)
}

func (c *Client) ClearCache() {
	c.cache.clear()
}
