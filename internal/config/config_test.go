package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxpack/releasegen/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "./include", cfg.Paths.IncludeDir)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.Delay)
	assert.Empty(t, cfg.GitHub.Token)
	assert.False(t, cfg.HasToken())
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, cfg.Validate())
	})

	t.Run("empty include dir rejected", func(t *testing.T) {
		cfg := config.Default()
		cfg.Paths.IncludeDir = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("sub-second timeout clamped to default", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.Timeout = 50 * time.Millisecond
		require.NoError(t, cfg.Validate())
		assert.Equal(t, config.DefaultTimeout, cfg.GitHub.Timeout)
	})

	t.Run("negative delay clamped to default", func(t *testing.T) {
		cfg := config.Default()
		cfg.Fetch.Delay = -time.Second
		require.NoError(t, cfg.Validate())
		assert.Equal(t, config.DefaultFetchDelay, cfg.Fetch.Delay)
	})

	t.Run("zero delay allowed", func(t *testing.T) {
		cfg := config.Default()
		cfg.Fetch.Delay = 0
		require.NoError(t, cfg.Validate())
		assert.Equal(t, time.Duration(0), cfg.Fetch.Delay)
	})

	t.Run("empty base URL and user agent restored", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.APIBaseURL = ""
		cfg.GitHub.UserAgent = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, config.DefaultAPIBaseURL, cfg.GitHub.APIBaseURL)
		assert.Equal(t, config.DefaultUserAgent, cfg.GitHub.UserAgent)
	})
}

func TestHasToken(t *testing.T) {
	cfg := config.Default()
	cfg.GitHub.Token = "abc"
	assert.True(t, cfg.HasToken())
}
