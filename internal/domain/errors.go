package domain

import "errors"

// Upstream failure taxonomy. Callers pick the fallback policy (stale value,
// empty result, or propagation) instead of operations hiding failures.
var (
	// ErrNotFound: unknown shop or resource id.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded: the tabular source rejected the request because
	// the per-minute quota was spent.
	ErrQuotaExceeded = errors.New("source quota exceeded")

	// ErrAuth: the tabular source rejected the credentials.
	ErrAuth = errors.New("source authorization failed")

	// ErrSourceUnavailable: no source client was configured, so reads
	// that need one cannot be served.
	ErrSourceUnavailable = errors.New("source client not configured")

	// ErrUpstreamMalformed: the upstream answered but the body was
	// unparseable.
	ErrUpstreamMalformed = errors.New("malformed upstream response")

	// ErrRateLimited: the upstream rejected the request with a rate limit
	// and no cached value was available to fall back on.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrUpstreamTimeout: gateway or network timeout with no cached value
	// to fall back on.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrUpstreamStatus: a non-transient upstream error status.
	ErrUpstreamStatus = errors.New("upstream error status")

	// ErrRetriesExhausted: every configured mirror was tried without
	// success and nothing was cached.
	ErrRetriesExhausted = errors.New("retries exhausted")
)
