// Package ratelimit enforces ingestion quotas with fixed-window counters in
// a shared key-value store: an hourly ceiling per client and a per-minute
// ceiling per target domain. The limiter fails open when the store is
// unreachable — availability of ingestion is prioritized over strict quota
// enforcement.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pagegate/internal/domain/entity"
	"pagegate/internal/infra/kv"
	"pagegate/internal/observability/metrics"
)

// Config holds the quota ceilings and window sizes for the limiter.
type Config struct {
	// ClientLimit is the maximum requests one client may make per ClientWindow.
	ClientLimit int64

	// ClientWindow is the fixed window for the per-client counter.
	ClientWindow time.Duration

	// DomainLimit is the maximum requests against one domain per DomainWindow.
	DomainLimit int64

	// DomainWindow is the fixed window for the per-domain counter.
	DomainWindow time.Duration
}

// DefaultConfig returns the default quotas: 100 requests per hour per
// client and 60 requests per minute per domain.
func DefaultConfig() Config {
	return Config{
		ClientLimit:  100,
		ClientWindow: time.Hour,
		DomainLimit:  60,
		DomainWindow: time.Minute,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.ClientLimit <= 0 {
		return fmt.Errorf("client limit must be positive, got %d", c.ClientLimit)
	}
	if c.DomainLimit <= 0 {
		return fmt.Errorf("domain limit must be positive, got %d", c.DomainLimit)
	}
	if c.ClientWindow <= 0 || c.DomainWindow <= 0 {
		return fmt.Errorf("windows must be positive, got client=%v domain=%v", c.ClientWindow, c.DomainWindow)
	}
	return nil
}

// Limiter checks per-client and per-domain quotas against a shared store.
type Limiter struct {
	store  kv.Store
	config Config
	logger *slog.Logger
}

// NewLimiter creates a Limiter backed by the given store.
//
// Parameters:
//   - store: Shared key-value store for counters (Redis in production)
//   - config: Quota ceilings; use DefaultConfig() for standard limits
//   - logger: Structured logger for fail-open warnings (nil uses slog.Default)
func NewLimiter(store kv.Store, config Config, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Allow checks both quotas for one ingestion request and returns a
// RATE_LIMITED FetchError when either is exceeded. A nil return means the
// request may proceed.
//
// Both counters are incremented atomically; the expiry is set only on the
// increment that creates the counter (count == 1), so later traffic never
// extends the window. Store errors are logged and the request is allowed
// through.
func (l *Limiter) Allow(ctx context.Context, clientID, domain string) *entity.FetchError {
	clientKey := "ratelimit:client:" + clientID
	if denied := l.check(ctx, "client", clientKey, l.config.ClientLimit, l.config.ClientWindow); denied {
		return entity.NewFetchError(entity.CodeRateLimited,
			fmt.Sprintf("client %s exceeded %d requests per %s", clientID, l.config.ClientLimit, l.config.ClientWindow))
	}

	domainKey := "ratelimit:domain:" + domain
	if denied := l.check(ctx, "domain", domainKey, l.config.DomainLimit, l.config.DomainWindow); denied {
		return entity.NewFetchError(entity.CodeRateLimited,
			fmt.Sprintf("domain %s exceeded %d requests per %s", domain, l.config.DomainLimit, l.config.DomainWindow))
	}

	return nil
}

// check increments one counter and reports whether the quota is exceeded.
// Fails open: any store error allows the request.
func (l *Limiter) check(ctx context.Context, limiter, key string, limit int64, window time.Duration) bool {
	count, err := l.store.Increment(ctx, key)
	if err != nil {
		l.logger.WarnContext(ctx, "rate limit store unreachable, allowing request",
			slog.String("key", key),
			slog.Any("error", err))
		metrics.RecordRateLimitCheck(limiter, "store_error")
		return false
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, window); err != nil {
			l.logger.WarnContext(ctx, "failed to set rate limit window expiry",
				slog.String("key", key),
				slog.Any("error", err))
		}
	}

	if count > limit {
		metrics.RecordRateLimitCheck(limiter, "denied")
		return true
	}

	metrics.RecordRateLimitCheck(limiter, "allowed")
	return false
}
