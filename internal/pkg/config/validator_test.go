package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "every six hours", schedule: "0 */6 * * *", wantErr: false},
		{name: "daily at 5:30", schedule: "30 5 * * *", wantErr: false},
		{name: "weekdays at 9:30", schedule: "30 9 * * 1-5", wantErr: false},
		{name: "empty", schedule: "", wantErr: true},
		{name: "too few fields", schedule: "* * *", wantErr: true},
		{name: "not a schedule", schedule: "every day", wantErr: true},
		{name: "minute out of range", schedule: "99 * * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCronSchedule_ErrorNamesSchedule(t *testing.T) {
	err := ValidateCronSchedule("bogus")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "utc", timezone: "UTC", wantErr: false},
		{name: "iana name", timezone: "Asia/Tokyo", wantErr: false},
		{name: "empty", timezone: "", wantErr: true},
		{name: "unknown", timezone: "Moon/Tycho", wantErr: true},
		{name: "offset instead of name", timezone: "+09:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimezone(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		min      time.Duration
		max      time.Duration
		wantErr  string
	}{
		{name: "in range", duration: 10 * time.Minute, min: time.Minute, max: 4 * time.Hour},
		{name: "at minimum", duration: time.Minute, min: time.Minute, max: 4 * time.Hour},
		{name: "at maximum", duration: 4 * time.Hour, min: time.Minute, max: 4 * time.Hour},
		{name: "below minimum", duration: time.Second, min: time.Minute, max: 4 * time.Hour, wantErr: "below minimum"},
		{name: "above maximum", duration: 5 * time.Hour, min: time.Minute, max: 4 * time.Hour, wantErr: "exceeds maximum"},
		{name: "inverted range", duration: time.Minute, min: time.Hour, max: time.Minute, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.duration, tt.min, tt.max)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr string
	}{
		{name: "in range", value: 10, min: 1, max: 50},
		{name: "at minimum", value: 1, min: 1, max: 50},
		{name: "at maximum", value: 50, min: 1, max: 50},
		{name: "below minimum", value: 0, min: 1, max: 50, wantErr: "below minimum"},
		{name: "above maximum", value: 51, min: 1, max: 50, wantErr: "exceeds maximum"},
		{name: "inverted range", value: 10, min: 50, max: 1, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIntRange(tt.value, tt.min, tt.max)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.NoError(t, ValidatePositiveDuration(10*time.Minute))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}
