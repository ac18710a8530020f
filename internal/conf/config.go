package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/msp-tools/autotask-search-mcp/internal/autotask"
)

type Config struct {
	Autotask AutotaskConfig `mapstructure:"autotask"`
	Log      LogConfig      `mapstructure:"log"`
}

type AutotaskConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	DetailTimeout   time.Duration `mapstructure:"detail_timeout"`
	SearchTimeout   time.Duration `mapstructure:"search_timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	PollMaxAttempts int           `mapstructure:"poll_max_attempts"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// LoadConfig reads configuration from the given file and the environment.
// The file is optional when path is empty; AUTOTASK_API_KEY and
// AUTOTASK_BASE_URL always override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindings := map[string]string{
		"autotask.api_key":  "AUTOTASK_API_KEY",
		"autotask.base_url": "AUTOTASK_BASE_URL",
		"log.level":         "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := autotask.DefaultConfig()
	v.SetDefault("autotask.base_url", defaults.BaseURL)
	v.SetDefault("autotask.detail_timeout", defaults.DetailTimeout)
	v.SetDefault("autotask.search_timeout", defaults.SearchTimeout)
	v.SetDefault("autotask.poll_interval", defaults.PollInterval)
	v.SetDefault("autotask.poll_max_attempts", defaults.PollMaxAttempts)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.enablecaller", true)
	v.SetDefault("log.enablestacktrace", true)
	v.SetDefault("log.file.filename", "logs/autotask-search-mcp.log")
	v.SetDefault("log.file.maxsize", 100)
	v.SetDefault("log.file.maxage", 30)
	v.SetDefault("log.file.maxbackups", 10)
	v.SetDefault("log.file.compress", true)
}

// AutotaskClientConfig converts the loaded section into a client config.
func (c *Config) AutotaskClientConfig() *autotask.Config {
	return &autotask.Config{
		BaseURL:         c.Autotask.BaseURL,
		APIKey:          c.Autotask.APIKey,
		DetailTimeout:   c.Autotask.DetailTimeout,
		SearchTimeout:   c.Autotask.SearchTimeout,
		PollInterval:    c.Autotask.PollInterval,
		PollMaxAttempts: c.Autotask.PollMaxAttempts,
	}
}
