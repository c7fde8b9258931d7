package worker

import (
	"fmt"
	"log/slog"
	"time"

	"pagegate/internal/pkg/config"
)

// IngestWorkerConfig holds the configuration for the batch ingest worker.
// The worker periodically reads a list of URLs and runs each through the
// classification pipeline, pacing requests to stay polite.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// All fields have defaults and validation rules so the worker can start
// safely even with invalid or missing configuration.
type IngestWorkerConfig struct {
	// CronSchedule is the cron expression for batch scheduling.
	// Format: "minute hour day month weekday"
	// Default: "0 */6 * * *" (every six hours)
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "UTC"
	Timezone string

	// URLListPath is the file holding one URL per line; blank lines and
	// lines starting with "#" are skipped.
	// Default: "urls.txt"
	URLListPath string

	// BatchTimeout is the maximum duration for one batch run.
	// Default: 10 minutes
	BatchTimeout time.Duration

	// RequestsPerSecond paces outbound fetches across the batch.
	// Range: 1-50
	// Default: 2
	RequestsPerSecond int

	// ClientID identifies the worker to the rate limiter.
	// Default: "ingest-worker"
	ClientID string

	// HealthPort is the port for the health check HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns an IngestWorkerConfig with default values: a
// six-hourly batch, UTC scheduling, two requests per second, and the
// conventional exporter port for health checks.
func DefaultConfig() IngestWorkerConfig {
	return IngestWorkerConfig{
		CronSchedule:      "0 */6 * * *",
		Timezone:          "UTC",
		URLListPath:       "urls.txt",
		BatchTimeout:      10 * time.Minute,
		RequestsPerSecond: 2,
		ClientID:          "ingest-worker",
		HealthPort:        9091,
	}
}

// Validate checks the configuration values. If multiple fields are
// invalid, all errors are collected and returned together.
func (c *IngestWorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}

	if c.URLListPath == "" {
		errs = append(errs, fmt.Errorf("url list path: must not be empty"))
	}

	if err := config.ValidatePositiveDuration(c.BatchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("batch timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.RequestsPerSecond, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("requests per second: %w", err))
	}

	if c.ClientID == "" {
		errs = append(errs, fmt.Errorf("client id: must not be empty"))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}

	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// This function implements the fail-open strategy: every invalid value
// falls back to its default with a warning and a metric, and the function
// never returns an error — a worker with defaults beats no worker.
//
// Environment variables:
//   - INGEST_CRON_SCHEDULE: Cron expression (default: "0 */6 * * *")
//   - INGEST_TIMEZONE: IANA timezone name (default: "UTC")
//   - INGEST_URL_LIST: Path to the URL list file (default: "urls.txt")
//   - INGEST_BATCH_TIMEOUT: Duration string, e.g. "10m" (default: 10 minutes)
//   - INGEST_REQUESTS_PER_SECOND: Integer 1-50 (default: 2)
//   - INGEST_CLIENT_ID: Rate-limit client identifier (default: "ingest-worker")
//   - INGEST_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*IngestWorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("INGEST_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	warn("cron_schedule", result)

	result = config.LoadEnvWithFallback("INGEST_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	warn("timezone", result)

	cfg.URLListPath = config.LoadEnvString("INGEST_URL_LIST", cfg.URLListPath)
	cfg.ClientID = config.LoadEnvString("INGEST_CLIENT_ID", cfg.ClientID)

	result = config.LoadEnvDuration("INGEST_BATCH_TIMEOUT", cfg.BatchTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.BatchTimeout = result.Value.(time.Duration)
	warn("batch_timeout", result)

	result = config.LoadEnvInt("INGEST_REQUESTS_PER_SECOND", cfg.RequestsPerSecond, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.RequestsPerSecond = result.Value.(int)
	warn("requests_per_second", result)

	result = config.LoadEnvInt("INGEST_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	warn("health_port", result)

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
