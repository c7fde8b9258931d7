package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// PipelineConfig holds configuration for the ingestion pipeline.
type PipelineConfig struct {
	// Redis is the shared key-value store backing rate limits, the robots
	// cache, and the result cache.
	Redis RedisConfig

	// RateLimit configures the per-client and per-domain fetch budgets.
	RateLimit RateLimitConfig

	// RobotsUserAgent is the product token matched against robots.txt
	// group headers. Default: "pagegate-bot"
	RobotsUserAgent string

	// StrictMode changes how paywalled pages are routed: metadata-only
	// instead of webview. Default: false
	StrictMode bool

	// Observability configures logging, tracing and metrics.
	Observability ObservabilityConfig
}

// RedisConfig holds connection settings for the key-value store.
type RedisConfig struct {
	// Address in "host:port" form. Default: "localhost:6379"
	Address string
	// Password for AUTH. Default: empty (no auth)
	Password string
	// DB index. Default: 0
	DB int
	// DialTimeout for establishing the connection. Default: 5s
	DialTimeout time.Duration
}

// RateLimitConfig holds fetch budget settings.
type RateLimitConfig struct {
	// ClientLimit is the request budget per client per window. Default: 100
	ClientLimit int64
	// ClientWindow is the client budget window. Default: 1h
	ClientWindow time.Duration
	// DomainLimit is the request budget per target domain per window. Default: 60
	DomainLimit int64
	// DomainWindow is the domain budget window. Default: 1m
	DomainWindow time.Duration
}

// ObservabilityConfig holds logging and tracing settings.
type ObservabilityConfig struct {
	// EnableTracing enables OpenTelemetry distributed tracing.
	EnableTracing bool
	// TracingEndpoint for OTLP exporter. Default: "localhost:4317"
	TracingEndpoint string
	// LogLevel for pipeline operations. Default: "info"
	LogLevel string
	// EnableMetrics enables Prometheus metrics.
	EnableMetrics bool
}

// LoadPipelineConfig loads pipeline configuration from environment
// variables. Returns a config with defaults if environment variables are
// not set.
func LoadPipelineConfig() (*PipelineConfig, error) {
	config := &PipelineConfig{
		Redis: RedisConfig{
			Address:     getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          getEnvInt("REDIS_DB", 0),
			DialTimeout: getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			ClientLimit:  int64(getEnvInt("RATE_LIMIT_CLIENT", 100)),
			ClientWindow: getEnvDuration("RATE_LIMIT_CLIENT_WINDOW", time.Hour),
			DomainLimit:  int64(getEnvInt("RATE_LIMIT_DOMAIN", 60)),
			DomainWindow: getEnvDuration("RATE_LIMIT_DOMAIN_WINDOW", time.Minute),
		},
		RobotsUserAgent: getEnvOrDefault("ROBOTS_USER_AGENT", "pagegate-bot"),
		StrictMode:      getEnvBool("STRICT_MODE", false),
		Observability: ObservabilityConfig{
			EnableTracing:   getEnvBool("TRACING_ENABLED", false),
			TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
			LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
			EnableMetrics:   getEnvBool("METRICS_ENABLED", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	return config, nil
}

// Validate checks configuration correctness.
func (c *PipelineConfig) Validate() error {
	if c.Redis.Address == "" {
		return fmt.Errorf("REDIS_ADDRESS cannot be empty")
	}

	if c.Redis.DialTimeout <= 0 {
		return fmt.Errorf("REDIS_DIAL_TIMEOUT must be positive")
	}

	if c.RateLimit.ClientLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_CLIENT must be positive")
	}

	if c.RateLimit.ClientWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_CLIENT_WINDOW must be positive")
	}

	if c.RateLimit.DomainLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_DOMAIN must be positive")
	}

	if c.RateLimit.DomainWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_DOMAIN_WINDOW must be positive")
	}

	if c.RobotsUserAgent == "" {
		return fmt.Errorf("ROBOTS_USER_AGENT cannot be empty")
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses boolean environment variable with default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
