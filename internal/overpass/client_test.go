package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(mirrors []string) *Client {
	c := NewClient(Config{Mirrors: mirrors}, zap.NewNop().Sugar())
	c.sleep = func(time.Duration) {}
	return c
}

func TestQueryCachesResult(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"elements":[1]}`))
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL})

	ctx := context.Background()

	result, err := client.Query(ctx, "57.1,65.5,57.2,65.6", "query")
	require.NoError(t, err)
	assert.JSONEq(t, `{"elements":[1]}`, string(result))

	_, err = client.Query(ctx, "57.1,65.5,57.2,65.6", "query")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestQueryRotatesMirrorsOn429(t *testing.T) {
	var slept []time.Duration

	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer healthy.Close()

	client := newTestClient([]string{limited.URL, healthy.URL})
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	result, err := client.Query(context.Background(), "1,2,3,4", "query")
	require.NoError(t, err)
	assert.JSONEq(t, `{"elements":[]}`, string(result))

	require.Len(t, slept, 1)
	assert.Equal(t, time.Second, slept[0])
}

func TestQueryRateLimitedEverywhereNoCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL, srv.URL})

	_, err := client.Query(context.Background(), "1,2,3,4", "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestQueryStaleFallbackOnRateLimit(t *testing.T) {
	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"elements":["old"]}`))
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL})

	current := time.Unix(1700000000, 0)
	client.cache.now = func() time.Time { return current }

	ctx := context.Background()

	_, err := client.Query(ctx, "1,2,3,4", "query")
	require.NoError(t, err)

	// Entry expired and every mirror rate limited: serve the stale copy.
	current = current.Add(2 * time.Hour)
	failing = true

	result, err := client.Query(ctx, "1,2,3,4", "query")
	require.NoError(t, err)
	assert.JSONEq(t, `{"elements":["old"]}`, string(result))
}

func TestQueryGatewayTimeoutFallsBack(t *testing.T) {
	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL})

	current := time.Unix(1700000000, 0)
	client.cache.now = func() time.Time { return current }

	ctx := context.Background()

	_, err := client.Query(ctx, "1,2,3,4", "query")
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	failing = true

	result, err := client.Query(ctx, "1,2,3,4", "query")
	require.NoError(t, err)
	assert.JSONEq(t, `{"elements":[]}`, string(result))
}

func TestQueryNonTransientStatusFailsImmediately(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL, srv.URL, srv.URL})

	_, err := client.Query(context.Background(), "1,2,3,4", "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
	assert.Equal(t, 1, hits)
}

func TestQueryMalformedBodyOnLastAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL, srv.URL})

	_, err := client.Query(context.Background(), "1,2,3,4", "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamMalformed)
}

func TestQueryMalformedThenHealthyMirror(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`garbage`))
	}))
	defer broken.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer healthy.Close()

	client := newTestClient([]string{broken.URL, healthy.URL})

	result, err := client.Query(context.Background(), "1,2,3,4", "query")
	require.NoError(t, err)
	assert.JSONEq(t, `{"elements":[]}`, string(result))
}

func TestQueryNoMirrorsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient([]string{srv.URL, srv.URL})

	_, err := client.Query(context.Background(), "1,2,3,4", "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
}

func TestWarmSkipsFreshEntries(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"elements":[{"type":"way"},{"type":"way"}]}`))
	}))
	defer srv.Close()

	client := newTestClient([]string{srv.URL})

	cities := []domain.CityBounds{
		{City: "Тюмень", MinLat: 57.0, MaxLat: 57.2, MinLng: 65.4, MaxLng: 65.7, ShopCount: 12},
	}

	results := client.Warm(context.Background(), cities)
	require.Len(t, results, 1)
	assert.Equal(t, "Тюмень", results[0].City)
	assert.Equal(t, 2, results[0].Roads)
	assert.False(t, results[0].FromHot)
	assert.Equal(t, 1, hits)

	// Second warmup with the cache still fresh fetches nothing.
	results = client.Warm(context.Background(), cities)
	require.Len(t, results, 1)
	assert.True(t, results[0].FromHot)
	assert.Equal(t, 1, hits)
}

func TestCityBBoxBuffer(t *testing.T) {
	bbox := CityBBox(domain.CityBounds{MinLat: 57.0, MaxLat: 57.2, MinLng: 65.4, MaxLng: 65.7})

	parts := strings.Split(bbox, ",")
	require.Len(t, parts, 4)

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		require.NoError(t, err)
		vals[i] = v
	}

	assert.InDelta(t, 56.73, vals[0], 1e-6)
	assert.InDelta(t, 65.13, vals[1], 1e-6)
	assert.InDelta(t, 57.47, vals[2], 1e-6)
	assert.InDelta(t, 65.97, vals[3], 1e-6)
}
