package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://devconnector.example/")
	t.Setenv("RATE_LIMIT_GLOBAL_THRESHOLD", "not-a-number")
	t.Setenv("GIN_MODE", "release")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://devconnector.example", cfg.FrontendURL)
	assert.Equal(t, 100, cfg.RateLimitGlobalThreshold)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.True(t, cfg.IsRelease())
}
