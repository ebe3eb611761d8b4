package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Server.CookieName)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Options.RetryBase)
	assert.InDelta(t, 1.5, cfg.Options.RetryMultiplier, 0.0001)
	assert.Equal(t, 3, cfg.Options.MaxAttempts)
	assert.Equal(t, "", cfg.Redis.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STOCKDESK_API_BASE_URL", "https://inventory.example.com/api/")
	t.Setenv("STOCKDESK_API_TIMEOUT", "20s")
	t.Setenv("STOCKDESK_CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("STOCKDESK_RATE_LIMIT_RATE", "5-S")
	t.Setenv("STOCKDESK_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://inventory.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.API.Timeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "5-S", cfg.RateLimit.Rate)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}
