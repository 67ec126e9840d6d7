package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoad_Defaults(t *testing.T) {
	t.Setenv("FISHLOG_DATABASE_URL", "postgres://localhost/fishlog")
	t.Setenv("FISHLOG_GATEWAY_TOKEN", "secret")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 5200, cfg.HTTPPort)
	assert.Equal(t, ":5200", cfg.GetHTTPAddr())
	assert.Equal(t, 24*time.Hour, cfg.RecalcInterval)
	assert.Equal(t, 20*1024*1024, cfg.BodyLimit())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.R2Enabled())
	assert.False(t, cfg.SyncEnabled())
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	t.Setenv("FISHLOG_DATABASE_URL", "postgres://localhost/fishlog")
	t.Setenv("FISHLOG_GATEWAY_TOKEN", "secret")
	t.Setenv("FISHLOG_HTTP_PORT", "8080")
	t.Setenv("FISHLOG_RECALC_INTERVAL", "90m")
	t.Setenv("FISHLOG_ALLOWED_ORIGINS", "https://fishlog.fi, https://app.fishlog.fi,")
	t.Setenv("FISHLOG_SYNC_SERVICE_URL", "http://profiles:8080/")
	t.Setenv("FISHLOG_SYNC_SERVICE_TOKEN", "sync")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 90*time.Minute, cfg.RecalcInterval)
	assert.Equal(t, "https://fishlog.fi,https://app.fishlog.fi", cfg.AllowedOriginsHeader())
	assert.Equal(t, "http://profiles:8080", cfg.SyncServiceURL)
	assert.True(t, cfg.SyncEnabled())
}

func TestConfigLoad_MissingRequired(t *testing.T) {
	t.Setenv("FISHLOG_DATABASE_URL", "")
	t.Setenv("FISHLOG_GATEWAY_TOKEN", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FISHLOG_DATABASE_URL")
	assert.Contains(t, err.Error(), "FISHLOG_GATEWAY_TOKEN")
}

func TestValidate(t *testing.T) {
	require.NoError(t, NewForTesting().Validate())

	tests := map[string]func(*Config){
		"port":          func(c *Config) { c.HTTPPort = 0 },
		"interval":      func(c *Config) { c.RecalcInterval = time.Second },
		"body limit":    func(c *Config) { c.BodyLimitMB = 0 },
		"partial r2":    func(c *Config) { c.R2AccountID = "acc" },
		"sync no token": func(c *Config) { c.SyncServiceURL = "http://profiles" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := NewForTesting()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
