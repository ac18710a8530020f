package autotask

import (
	"errors"
	"strings"
	"time"
)

// Config holds the Autotask search API client configuration.
type Config struct {
	// BaseURL is the root of the Autotask search backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// APIKey is the bearer token used on every request.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// DetailTimeout bounds single-item operations (ticket detail, related).
	DetailTimeout time.Duration `mapstructure:"detail_timeout" yaml:"detail_timeout"`

	// SearchTimeout bounds search, batch and poll-capable operations.
	SearchTimeout time.Duration `mapstructure:"search_timeout" yaml:"search_timeout"`

	// PollInterval is the delay between deferred-job status checks.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	// PollMaxAttempts caps the number of status checks for one deferred job.
	PollMaxAttempts int `mapstructure:"poll_max_attempts" yaml:"poll_max_attempts"`
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.DetailTimeout <= 0 {
		c.DetailTimeout = 30 * time.Second
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = 60 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.PollMaxAttempts <= 0 {
		c.PollMaxAttempts = 20
	}

	return nil
}

// DefaultConfig returns a configuration with all defaults applied except
// the API key, which has no usable default.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:8000",
		DetailTimeout:   30 * time.Second,
		SearchTimeout:   60 * time.Second,
		PollInterval:    3 * time.Second,
		PollMaxAttempts: 20,
	}
}

// ErrMissingAPIKey is returned when the client is constructed without a
// bearer token. The server refuses to start in that case.
var ErrMissingAPIKey = errors.New("autotask: api_key is required (set AUTOTASK_API_KEY)")
