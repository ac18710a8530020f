package autotask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("api key required", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://localhost:8000"}
		assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
	})

	t.Run("defaults filled in", func(t *testing.T) {
		cfg := &Config{APIKey: "k"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.DetailTimeout)
		assert.Equal(t, 60*time.Second, cfg.SearchTimeout)
		assert.Equal(t, 3*time.Second, cfg.PollInterval)
		assert.Equal(t, 20, cfg.PollMaxAttempts)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		cfg := &Config{
			APIKey:          "k",
			BaseURL:         "https://api.example.com/",
			DetailTimeout:   5 * time.Second,
			SearchTimeout:   10 * time.Second,
			PollInterval:    time.Second,
			PollMaxAttempts: 5,
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.DetailTimeout)
		assert.Equal(t, 10*time.Second, cfg.SearchTimeout)
		assert.Equal(t, time.Second, cfg.PollInterval)
		assert.Equal(t, 5, cfg.PollMaxAttempts)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 20, cfg.PollMaxAttempts)
}
