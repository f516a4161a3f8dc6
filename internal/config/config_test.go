package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 0, cfg.Match.WindowDays)
	assert.Equal(t, "UTC", cfg.Match.Timezone)
	assert.False(t, cfg.Match.RequireContact)
	assert.False(t, cfg.Match.MatchTripType)
	assert.Equal(t, []string{"departure date:", "departure:", "depart:", "date:"}, cfg.Extract.Boilerplate)
	assert.Equal(t, "USD", cfg.Display.Currency)
	assert.Equal(t, 2*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, 2, cfg.Providers.MaxRetries)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, cfg.Providers.RetryDelays)
	assert.True(t, cfg.Providers.Feed.Enabled)
	assert.False(t, cfg.Providers.SQLite.Enabled)
	assert.False(t, cfg.Providers.Redis.Enabled)
	assert.Equal(t, "flightmatch:offers", cfg.Providers.Redis.Key)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("FLIGHTMATCH_MATCH_WINDOW_DAYS", "3")
	t.Setenv("FLIGHTMATCH_MATCH_TIMEZONE", "Asia/Jakarta")
	t.Setenv("FLIGHTMATCH_PROVIDERS_SQLITE_ENABLED", "true")
	t.Setenv("FLIGHTMATCH_DISPLAY_CURRENCY", "idr")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Match.WindowDays)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
	assert.True(t, cfg.Providers.SQLite.Enabled)
	assert.Equal(t, "IDR", cfg.Display.Currency)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
log:
  level: debug
  format: json
match:
  window_days: 1
  require_contact: true
providers:
  retry_delays: ["50ms"]
  rate_limit:
    overrides:
      redis:
        rps: 2.5
        burst: 4
  redis:
    enabled: true
    key: offers
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1, cfg.Match.WindowDays)
	assert.True(t, cfg.Match.RequireContact)
	assert.Equal(t, []time.Duration{50 * time.Millisecond}, cfg.Providers.RetryDelays)
	assert.True(t, cfg.Providers.Redis.Enabled)
	assert.Equal(t, "offers", cfg.Providers.Redis.Key)
	assert.Equal(t, map[string]ProviderRateLimit{"redis": {RPS: 2.5, Burst: 4}}, cfg.Providers.RateLimit.Overrides)
}

func TestLoad_InvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
providers:
  rate_limit:
    overrides:
      sqlite:
        rps: 0
        burst: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(ConfigPathEnv, path)

	_, err := Load()
	assert.ErrorContains(t, err, "overrides.sqlite")
}

func TestLoad_BrokenConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	t.Setenv(ConfigPathEnv, path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "negative window", key: "FLIGHTMATCH_MATCH_WINDOW_DAYS", val: "-1"},
		{name: "unknown timezone", key: "FLIGHTMATCH_MATCH_TIMEZONE", val: "Mars/Olympus"},
		{name: "bad log level", key: "FLIGHTMATCH_LOG_LEVEL", val: "verbose"},
		{name: "bad log format", key: "FLIGHTMATCH_LOG_FORMAT", val: "xml"},
		{name: "zero timeout", key: "FLIGHTMATCH_PROVIDERS_TIMEOUT", val: "0s"},
		{name: "zero burst", key: "FLIGHTMATCH_PROVIDERS_RATE_LIMIT_BURST", val: "0"},
		{name: "no providers", key: "FLIGHTMATCH_PROVIDERS_FEED_ENABLED", val: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnv, "")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}
