// Package robots resolves and enforces robots.txt crawl policy. Parsed rule
// sets are cached in the shared key-value store for 24 hours, including
// negative results, so a popular domain costs one robots fetch per day.
// Unfetchable or malformed robots files degrade to fully permissive: the
// pipeline is conservative about crawl etiquette but never blocks on a
// site's inability to serve its own policy file.
package robots

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"pagegate/internal/domain/entity"
	"pagegate/internal/infra/kv"
	"pagegate/internal/observability/metrics"
)

const (
	// cacheTTL is how long a parsed rule set stays valid, regardless of
	// fetch outcome.
	cacheTTL = 24 * time.Hour

	// fetchTimeout bounds the robots.txt request itself.
	fetchTimeout = 5 * time.Second

	// maxRobotsBytes caps how much of a robots file is read. Real robots
	// files are a few KB; anything larger is truncated.
	maxRobotsBytes = 512 * 1024

	cacheKeyPrefix = "robots:"
)

// Resolver answers path-level allow/deny queries for a domain's robots
// policy, fetching and caching rule sets on demand.
type Resolver struct {
	store     kv.Store
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	group     singleflight.Group

	// robotsURL builds the robots.txt URL for a host; overridable in tests.
	robotsURL func(host string) string
}

// NewResolver creates a Resolver backed by the given store.
//
// Parameters:
//   - store: Shared key-value store for the 24h rule cache
//   - userAgent: The crawler's user-agent token matched against robots
//     groups (in addition to the wildcard "*")
//   - logger: Structured logger (nil uses slog.Default)
func NewResolver(store kv.Store, userAgent string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:     store,
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: userAgent,
		logger:    logger,
		robotsURL: func(host string) string {
			return "https://" + host + "/robots.txt"
		},
	}
}

// IsAllowed reports whether the given URL's path may be crawled under the
// host's robots policy. Unknown hosts trigger a fetch; concurrent queries
// for the same host share one fetch.
func (r *Resolver) IsAllowed(ctx context.Context, u *url.URL) bool {
	rule := r.rules(ctx, u.Hostname())
	allowed := rule.IsPathAllowed(u.Path)
	if !allowed {
		metrics.RecordRobotsBlocked()
	}
	return allowed
}

// rules returns the cached rule set for host, fetching on a miss.
func (r *Resolver) rules(ctx context.Context, host string) *entity.RobotsRule {
	key := cacheKeyPrefix + host

	if raw, err := r.store.Get(ctx, key); err == nil {
		var rule entity.RobotsRule
		if err := json.Unmarshal([]byte(raw), &rule); err == nil {
			metrics.RecordRobotsCache("hit")
			return &rule
		}
		r.logger.WarnContext(ctx, "corrupt robots cache entry, refetching",
			slog.String("host", host),
			slog.Any("error", err))
	} else if err != kv.ErrNotFound {
		r.logger.WarnContext(ctx, "robots cache unreachable, fetching directly",
			slog.String("host", host),
			slog.Any("error", err))
	}
	metrics.RecordRobotsCache("miss")

	v, _, _ := r.group.Do(host, func() (interface{}, error) {
		rule := r.fetch(ctx, host)
		r.cache(ctx, key, rule)
		return rule, nil
	})
	return v.(*entity.RobotsRule)
}

// fetch retrieves and parses https://host/robots.txt. Any failure — network
// error, timeout, non-2xx — yields a permissive empty rule.
func (r *Resolver) fetch(ctx context.Context, host string) *entity.RobotsRule {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.robotsURL(host), nil)
	if err != nil {
		return &entity.RobotsRule{}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.DebugContext(ctx, "robots fetch failed, treating as permissive",
			slog.String("host", host),
			slog.Any("error", err))
		return &entity.RobotsRule{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &entity.RobotsRule{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return &entity.RobotsRule{}
	}

	return Parse(string(body), r.userAgent)
}

// cache stores the rule set, logging but tolerating store failures.
func (r *Resolver) cache(ctx context.Context, key string, rule *entity.RobotsRule) {
	raw, err := json.Marshal(rule)
	if err != nil {
		return
	}
	if err := r.store.SetWithTTL(ctx, key, string(raw), cacheTTL); err != nil {
		r.logger.WarnContext(ctx, "failed to cache robots rules",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// Parse extracts the Allow/Disallow prefixes from raw robots text for the
// single user-agent group relevant to userAgent (exact token match,
// case-insensitive, or the wildcard "*"). Directives outside an applicable
// group are ignored; prefixes are collected verbatim.
func Parse(body, userAgent string) *entity.RobotsRule {
	rule := &entity.RobotsRule{}
	token := strings.ToLower(userAgent)

	applies := false
	inGroupHeader := false

	for _, line := range strings.Split(body, "\n") {
		// Strip comments and surrounding whitespace.
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			// Consecutive User-agent lines name one group; a User-agent
			// line after directives starts a new group.
			if !inGroupHeader {
				applies = false
			}
			inGroupHeader = true

			agent := strings.ToLower(value)
			if agent == "*" || strings.Contains(token, agent) {
				applies = true
			}

		case "allow":
			inGroupHeader = false
			if applies && value != "" {
				rule.Allowed = append(rule.Allowed, value)
			}

		case "disallow":
			inGroupHeader = false
			if applies && value != "" {
				rule.Disallowed = append(rule.Disallowed, value)
			}

		default:
			// Crawl-delay, Sitemap and friends end the group header but
			// carry no path policy.
			inGroupHeader = false
		}
	}

	return rule
}
