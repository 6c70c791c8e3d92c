package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, "granja.db", c.DatabasePath)
	assert.Equal(t, 60*time.Second, c.SyncInterval)
	assert.Equal(t, 5*time.Second, c.ProbeInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 60*time.Second, cfg.SyncInterval)
}

func TestParseEnvOverridesDefaults(t *testing.T) {
	t.Setenv("GRANJA_SERVER_URL", "https://api.granja.mx")
	t.Setenv("GRANJA_SYNC_INTERVAL", "90s")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "https://api.granja.mx", c.ServerBaseURL)
	assert.Equal(t, 90*time.Second, c.SyncInterval)
	assert.Equal(t, "granja.db", c.DatabasePath)
}

func TestParseEnvBadDurationPanics(t *testing.T) {
	t.Setenv("GRANJA_SYNC_INTERVAL", "not-a-duration")

	var c Config
	c.LoadDefaults()
	assert.Panics(t, func() { parseEnv(&c) })
}
