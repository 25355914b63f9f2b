package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("YTPL_TEST_STRING", "value")
	assert.Equal(t, "value", GetEnvString("YTPL_TEST_STRING", "default"))
	assert.Equal(t, "default", GetEnvString("YTPL_TEST_UNSET", "default"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "valid", value: "42", want: 42},
		{name: "negative", value: "-3", want: -3},
		{name: "invalid", value: "4x", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("YTPL_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("YTPL_TEST_INT", 7))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("YTPL_TEST_FLOAT", "0.5")
	assert.InDelta(t, 0.5, GetEnvFloat("YTPL_TEST_FLOAT", 2), 1e-9)

	t.Setenv("YTPL_TEST_FLOAT", "fast")
	assert.InDelta(t, 2.0, GetEnvFloat("YTPL_TEST_FLOAT", 2), 1e-9)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("YTPL_TEST_BOOL", "true")
	assert.True(t, GetEnvBool("YTPL_TEST_BOOL", false))

	t.Setenv("YTPL_TEST_BOOL", "0")
	assert.False(t, GetEnvBool("YTPL_TEST_BOOL", true))

	t.Setenv("YTPL_TEST_BOOL", "maybe")
	assert.True(t, GetEnvBool("YTPL_TEST_BOOL", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("YTPL_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("YTPL_TEST_DURATION", time.Second))

	t.Setenv("YTPL_TEST_DURATION", "soon")
	assert.Equal(t, time.Second, GetEnvDuration("YTPL_TEST_DURATION", time.Second))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateDurationRange(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Minute, time.Hour, time.Second))

	assert.NoError(t, ValidateRatio(0.7))
	assert.Error(t, ValidateRatio(1.5))
	assert.Error(t, ValidateRatio(-0.1))
}
