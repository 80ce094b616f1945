package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)

	assert.Equal(t, MultitaskVirtualWindow, cfg.Host.Mode)
	assert.Equal(t, 8, cfg.Host.MaxWindows)
	assert.Equal(t, 1280, cfg.Host.SurfaceWidth)
	assert.True(t, cfg.Host.ForwardStatusBarTaps)
	assert.Equal(t, 320, cfg.PiP.Width)
	assert.Equal(t, 500*time.Millisecond, cfg.Relaunch.Delay)
	assert.NoError(t, cfg.Validate())
}

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var commonKeys = []string{"PORT", "HOST", "LOG_LEVEL", "LOG_DEV"}

func TestLoadMatchesDefaultWithoutEnvironment(t *testing.T) {
	clearEnv(t, commonKeys...)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	env := map[string]string{
		"PORT":                       "9000",
		"LOG_LEVEL":                  "debug",
		"LOG_DEV":                    "true",
		"VW_MAX_WINDOWS":             "3",
		"VW_SURFACE_WIDTH":           "1024",
		"VW_SURFACE_HEIGHT":          "768",
		"VW_BOTTOM_WINDOW_BAR":       "true",
		"VW_MAX_ONE_APP_ON_STAGE":    "true",
		"VW_FORWARD_STATUS_BAR_TAPS": "false",
		"VW_MODE":                    "native",
		"PIP_WIDTH":                  "240",
		"LAUNCHER_URL":               "http://launcher:9100",
		"LAUNCHER_TIMEOUT":           "5s",
		"RELAUNCH_ENABLED":           "true",
		"RELAUNCH_DELAY":             "1s",
		"ARRANGEMENT_PATH":           "/tmp/arrangement.yaml",
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 3, cfg.Host.MaxWindows)
	assert.Equal(t, 1024, cfg.Host.SurfaceWidth)
	assert.Equal(t, 768, cfg.Host.SurfaceHeight)
	assert.True(t, cfg.Host.BottomWindowBar)
	assert.True(t, cfg.Host.MaxOneAppOnStage)
	assert.False(t, cfg.Host.ForwardStatusBarTaps)
	assert.Equal(t, MultitaskNativeWindow, cfg.Host.Mode)
	assert.Equal(t, 240, cfg.PiP.Width)
	assert.Equal(t, "http://launcher:9100", cfg.Launcher.URL)
	assert.Equal(t, 5*time.Second, cfg.Launcher.Timeout)
	assert.True(t, cfg.Relaunch.Enabled)
	assert.Equal(t, time.Second, cfg.Relaunch.Delay)
	assert.Equal(t, "/tmp/arrangement.yaml", cfg.Arrangement.Path)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero windows", key: "VW_MAX_WINDOWS", val: "0"},
		{name: "unknown mode", key: "VW_MODE", val: "floating"},
		{name: "empty surface", key: "VW_SURFACE_WIDTH", val: "0"},
		{name: "not a number", key: "VW_MAX_WINDOWS", val: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, commonKeys...)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back instead of failing.
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}
