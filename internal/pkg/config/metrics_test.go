package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Component names must be unique per process: promauto registers with the
// default registry, so each test uses its own prefix.

func TestNewConfigMetrics_Initializes(t *testing.T) {
	metrics := NewConfigMetrics("test_registration")

	assert.NotNil(t, metrics.LoadTimestamp)
	assert.NotNil(t, metrics.ValidationErrorsTotal)
	assert.NotNil(t, metrics.FallbacksTotal)
	assert.NotNil(t, metrics.FallbackActive)
	assert.Equal(t, "test_registration", metrics.componentName)
}

func TestNewConfigMetrics_DistinctComponents(t *testing.T) {
	a := NewConfigMetrics("test_component_a")
	b := NewConfigMetrics("test_component_b")

	a.RecordLoadTimestamp()
	b.RecordLoadTimestamp()

	assert.NotSame(t, a.LoadTimestamp, b.LoadTimestamp)
}

func TestRecordLoadTimestamp(t *testing.T) {
	metrics := NewConfigMetrics("test_load_timestamp")

	metrics.RecordLoadTimestamp()

	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
}

func TestRecordValidationError(t *testing.T) {
	metrics := NewConfigMetrics("test_validation_error")

	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("timezone")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("timezone")))
}

func TestRecordFallback(t *testing.T) {
	metrics := NewConfigMetrics("test_fallback")

	metrics.RecordFallback("requests_per_second", "default")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("requests_per_second")))
}

func TestSetFallbackActive(t *testing.T) {
	metrics := NewConfigMetrics("test_fallback_active")

	metrics.SetFallbackActive("timezone", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))

	metrics.SetFallbackActive("timezone", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}
