package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// API configures the calculation service (cmd/api).
type API struct {
	Addr            string        `mapstructure:"addr"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// NewAPIViper binds API_* environment variables.
func NewAPIViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("API")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("rate_limit", 600)
	v.SetDefault("rate_window", time.Minute)
	v.SetDefault("shutdown_timeout", 5*time.Second)
	return v
}

// LoadAPI reads API_ADDR, API_RATE_LIMIT, API_RATE_WINDOW and
// API_SHUTDOWN_TIMEOUT. API_RATE_LIMIT=0 disables rate limiting.
func LoadAPI() (API, error) {
	var cfg API
	if err := NewAPIViper().Unmarshal(&cfg); err != nil {
		return API{}, fmt.Errorf("decoding API_* environment: %w", err)
	}

	if cfg.RateLimit < 0 {
		return API{}, fmt.Errorf("API_RATE_LIMIT: must not be negative, got %d", cfg.RateLimit)
	}
	if cfg.RateWindow <= 0 {
		return API{}, fmt.Errorf("API_RATE_WINDOW: must be positive, got %s", cfg.RateWindow)
	}
	if cfg.ShutdownTimeout <= 0 {
		return API{}, fmt.Errorf("API_SHUTDOWN_TIMEOUT: must be positive, got %s", cfg.ShutdownTimeout)
	}

	return cfg, nil
}
