package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/skypulse/internal/ingest"
	"github.com/lox/skypulse/internal/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, ingest.DefaultGeocodingURL, cfg.GeocodingURL)
	assert.Equal(t, ingest.DefaultForecastURL, cfg.ForecastURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Local, cfg.Timezone)
	assert.Equal(t, store.MemoryPath, cfg.StorePath)
	assert.False(t, cfg.Development)
	assert.Nil(t, cfg.Location)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "skypulse.yaml", `
server:
  port: 7000
http:
  timeout: 5s
clock:
  timezone: Australia/Melbourne
location:
  latitude: -36.73
  longitude: 146.96
log:
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "Australia/Melbourne", cfg.Timezone.String())
	assert.True(t, cfg.Development)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, -36.73, cfg.Location.Latitude)
	assert.Equal(t, 146.96, cfg.Location.Longitude)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "skypulse.yaml", "server:\n  port: 7000\n")
	t.Setenv("SKYPULSE_SERVER_PORT", "9090")
	t.Setenv("SKYPULSE_FORECAST_BASE_URL", "http://localhost:1234")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:1234", cfg.ForecastURL)
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "SKYPULSE_GEOCODING_BASE_URL"
	t.Cleanup(func() { os.Unsetenv(key) })
	envPath := writeFile(t, ".env", key+"=http://geo.test\n")

	cfg, err := Load("", envPath)
	require.NoError(t, err)
	assert.Equal(t, "http://geo.test", cfg.GeocodingURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad timeout", "http:\n  timeout: soon\n"},
		{"zero timeout", "http:\n  timeout: 0s\n"},
		{"bad timezone", "clock:\n  timezone: Mars/Olympus_Mons\n"},
		{"latitude out of range", "location:\n  latitude: 91\n  longitude: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_PartialLocationIgnored(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "location:\n  latitude: 10\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Location)
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		log, err := NewLogger(dev)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
