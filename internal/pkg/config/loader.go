// Package config provides fail-open environment loading shared by the
// pipeline components: every loader returns a usable value, applying the
// default and recording a warning instead of erroring when an environment
// variable is malformed. Callers surface the warnings through logs and the
// ConfigMetrics counters so silent fallbacks stay visible.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult is the outcome of loading one configuration value.
// Value holds the loaded (or fallback) value; callers assert it back to
// the concrete type. FallbackApplied is true when the default replaced an
// invalid environment value, with one warning message per fallback.
//
// Example:
//
//	result := LoadEnvDuration("INGEST_BATCH_TIMEOUT", 10*time.Minute, ValidatePositiveDuration)
//	timeout := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the environment variable's value, or defaultValue
// when unset. No validation; use LoadEnvWithFallback when a bad value must
// not pass through.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string with validation. An unset variable
// yields the default silently; a set-but-invalid value yields the default
// with a warning. validator may be nil to skip validation.
//
// Example:
//
//	result := LoadEnvWithFallback("INGEST_CRON_SCHEDULE", "0 */6 * * *", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a Go duration string ("30s", "5m", "1h30m") with
// optional validation, falling back to the default on parse or validation
// failure.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, err, defaultValue)
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: parsed}
}

// LoadEnvInt loads an integer with optional validation, falling back to
// the default on parse or validation failure.
//
// Example:
//
//	result := LoadEnvInt("INGEST_REQUESTS_PER_SECOND", 2, func(v int) error {
//		return ValidateIntRange(v, 1, 50)
//	})
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, fmt.Errorf("invalid integer format"), defaultValue)
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: parsed}
}

// LoadEnvBool loads a boolean. Accepts the strconv.ParseBool forms
// ("1", "t", "true", "0", "f", "false", any case); anything else falls
// back to the default with a warning.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), defaultValue)
	}

	return ConfigLoadResult{Value: parsed}
}

// fallback builds the default-applied result with a uniform warning shape.
func fallback(envKey, raw string, err error, defaultValue interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value: defaultValue,
		Warnings: []string{fmt.Sprintf(
			"Invalid %s='%s': %v, falling back to default '%v'",
			envKey, raw, err, defaultValue,
		)},
		FallbackApplied: true,
	}
}
