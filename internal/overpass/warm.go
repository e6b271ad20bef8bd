package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

// cityBBoxBuffer widens a city's shop bounding box by roughly 30 km so
// warmed road data covers the map viewport around the shops.
const cityBBoxBuffer = 0.27

const warmQueryTemplate = `[out:json][timeout:60];
(way["highway"~"motorway|trunk|primary|secondary|tertiary|residential|unclassified|road|service|living_street"]["highway"!~".*_link"](%s));
out geom;`

// WarmResult records the outcome of one city's prefetch.
type WarmResult struct {
	City    string `json:"city"`
	Status  string `json:"status"`
	Roads   int    `json:"roads,omitempty"`
	FromHot bool   `json:"from_cache,omitempty"`
}

// CityBBox builds the warmup bounding box around every shop of a city.
func CityBBox(b domain.CityBounds) string {
	return fmt.Sprintf("%f,%f,%f,%f",
		b.MinLat-cityBBoxBuffer, b.MinLng-cityBBoxBuffer,
		b.MaxLat+cityBBoxBuffer, b.MaxLng+cityBBoxBuffer)
}

// Warm precomputes road geometry for the given cities (callers pass the
// top-K cities by shop count). Only the first configured mirror is used,
// with no retry rotation: this is a best-effort prefetch where per-city
// failures are recorded but never abort the batch.
func (c *Client) Warm(ctx context.Context, cities []domain.CityBounds) []WarmResult {
	results := make([]WarmResult, 0, len(cities))

	for _, city := range cities {
		bbox := CityBBox(city)
		key := CacheKey(bbox)

		if _, fresh, _ := c.cache.get(key); fresh {
			results = append(results, WarmResult{City: city.City, Status: "ok", FromHot: true})
			continue
		}

		query := fmt.Sprintf(warmQueryTemplate, bbox)
		result, err := c.warmFetch(ctx, query)
		if err != nil {
			c.logger.Warnw("warmup fetch failed", "city", city.City, "error", err)
			results = append(results, WarmResult{City: city.City, Status: err.Error()})
			continue
		}

		c.cache.put(key, result)
		results = append(results, WarmResult{City: city.City, Status: "ok", Roads: countElements(result)})
	}

	return results
}

func (c *Client) warmFetch(ctx context.Context, query string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mirrors[0], strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", domain.ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || !json.Valid(body) {
		return nil, domain.ErrUpstreamMalformed
	}

	return json.RawMessage(body), nil
}

func countElements(result json.RawMessage) int {
	var parsed struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return 0
	}
	return len(parsed.Elements)
}
