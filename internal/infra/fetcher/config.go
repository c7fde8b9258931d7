package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultUserAgent is the honest user-agent string sent on every outbound
// request. Sites that want to block it can do so via robots.txt.
const DefaultUserAgent = "Mozilla/5.0 (compatible; pagegate-bot/1.0; +https://pagegate.dev/bot)"

// Config holds the configuration for the bounded fetcher.
//
// Security settings:
//   - MaxHTMLBytes / MaxBinaryBytes: Prevent memory exhaustion from
//     oversized or lying responses
//   - MaxRedirects: Prevents redirect-based attacks and infinite chains
//   - Timeout: Prevents resource starvation from slow servers
//   - ResolveHosts: Closes the DNS-rebinding gap of the literal-pattern
//     SSRF check by validating resolved addresses before connecting
type Config struct {
	// Timeout is the hard per-attempt deadline for a single HTTP request.
	// Each redirect hop gets its own timeout.
	// Default: 10s
	Timeout time.Duration

	// MaxHTMLBytes is the byte ceiling for markup responses.
	// Default: 5242880 (5MB)
	MaxHTMLBytes int64

	// MaxBinaryBytes is the byte ceiling for binary/file responses.
	// Default: 10485760 (10MB)
	MaxBinaryBytes int64

	// MaxRedirects is the redirect hop ceiling. Each hop is re-validated
	// against the SSRF guard before it is followed.
	// Default: 3
	MaxRedirects int

	// FollowRedirects controls whether 3xx responses are followed at all.
	// When false, a redirect status surfaces as HTTP_ERROR.
	// Default: true
	FollowRedirects bool

	// UserAgent is sent on every request.
	// Default: DefaultUserAgent
	UserAgent string

	// DenyPrivateIPs controls whether private/reserved address patterns are
	// rejected. Should always be true in production; tests targeting local
	// fixtures disable it.
	// Default: true
	DenyPrivateIPs bool

	// ResolveHosts enables DNS-resolution validation in addition to the
	// literal-pattern check. Off by default: the literal check alone is the
	// documented contract, and resolution adds a lookup per hop.
	// Default: false
	ResolveHosts bool
}

// DefaultConfig returns the production default fetcher configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		MaxHTMLBytes:    5 * 1024 * 1024,
		MaxBinaryBytes:  10 * 1024 * 1024,
		MaxRedirects:    3,
		FollowRedirects: true,
		UserAgent:       DefaultUserAgent,
		DenyPrivateIPs:  true,
		ResolveHosts:    false,
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxHTMLBytes < minBodySize || c.MaxHTMLBytes > maxBodySize {
		return fmt.Errorf("max HTML size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxHTMLBytes)
	}
	if c.MaxBinaryBytes < c.MaxHTMLBytes || c.MaxBinaryBytes > maxBodySize {
		return fmt.Errorf("max binary size must be between %d and %d bytes, got %d", c.MaxHTMLBytes, maxBodySize, c.MaxBinaryBytes)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// If a variable is not set, the default value is used. After loading,
// the configuration is validated.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration string, e.g., "10s" (default: 10s)
//   - FETCH_MAX_HTML_BYTES: integer in bytes (default: 5242880)
//   - FETCH_MAX_BINARY_BYTES: integer in bytes (default: 10485760)
//   - FETCH_MAX_REDIRECTS: integer (default: 3)
//   - FETCH_FOLLOW_REDIRECTS: "true" or "false" (default: true)
//   - FETCH_USER_AGENT: string (default: DefaultUserAgent)
//   - FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
//   - FETCH_RESOLVE_HOSTS: "true" or "false" (default: false)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("FETCH_MAX_HTML_BYTES"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_HTML_BYTES: %v", err)
		}
		cfg.MaxHTMLBytes = parsed
	}

	if val := os.Getenv("FETCH_MAX_BINARY_BYTES"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_BINARY_BYTES: %v", err)
		}
		cfg.MaxBinaryBytes = parsed
	}

	if val := os.Getenv("FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("FETCH_FOLLOW_REDIRECTS"); val != "" {
		cfg.FollowRedirects = val == "true"
	}

	if val := os.Getenv("FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if val := os.Getenv("FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if val := os.Getenv("FETCH_RESOLVE_HOSTS"); val != "" {
		cfg.ResolveHosts = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
