package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keypad configures the keypad process (cmd/keypad).
type Keypad struct {
	Addr           string
	RemoteURL      string
	RequestTimeout time.Duration // 0 waits for the service indefinitely
	Heartbeat      time.Duration
}

// Flag names shared by the keypad commands; each can also be set through
// KEYPAD_<NAME> with dashes turned into underscores.
const (
	FlagAddr           = "addr"
	FlagRemoteURL      = "remote-url"
	FlagRequestTimeout = "request-timeout"
	FlagHeartbeat      = "heartbeat"
)

// NewKeypadViper binds flags to KEYPAD_* environment variables.
func NewKeypadViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("KEYPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(FlagAddr, ":8081")
	v.SetDefault(FlagRemoteURL, "http://localhost:8080")
	v.SetDefault(FlagRequestTimeout, time.Duration(0))
	v.SetDefault(FlagHeartbeat, 15*time.Second)

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// LoadKeypad reads and validates the keypad configuration from v.
func LoadKeypad(v *viper.Viper) (Keypad, error) {
	cfg := Keypad{
		Addr:           v.GetString(FlagAddr),
		RemoteURL:      v.GetString(FlagRemoteURL),
		RequestTimeout: v.GetDuration(FlagRequestTimeout),
		Heartbeat:      v.GetDuration(FlagHeartbeat),
	}

	u, err := url.Parse(cfg.RemoteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Keypad{}, fmt.Errorf("%s: expected an http(s) URL, got %q", FlagRemoteURL, cfg.RemoteURL)
	}
	if cfg.RequestTimeout < 0 {
		return Keypad{}, fmt.Errorf("%s: must not be negative", FlagRequestTimeout)
	}
	if cfg.Heartbeat <= 0 {
		return Keypad{}, fmt.Errorf("%s: must be positive", FlagHeartbeat)
	}

	return cfg, nil
}
