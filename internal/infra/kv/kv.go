// Package kv provides the shared key-value store used for all cross-request
// coordination: rate-limit counters, the robots rule cache, and the result
// cache. The store is injected as an interface so tests can substitute an
// in-memory fake and callers can assert fail-open/fail-closed behavior
// deterministically.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
// Store outages surface as other errors; callers that fail open must
// distinguish the two.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal key-value contract the pipeline needs.
//
// All methods must be safe for concurrent use. Implementations must
// tolerate an unreachable backend by returning errors promptly rather than
// hanging: the rate limiter fails open on store errors and the robots cache
// degrades to fetching every time.
type Store interface {
	// Increment atomically increments the integer at key by one and
	// returns the new value. A missing key counts from zero.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets the key's time-to-live. Callers set the expiry only on
	// the increment that created the counter (count == 1) so windows are
	// never extended by later traffic.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Get returns the string value at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetWithTTL stores value at key with the given time-to-live.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}
