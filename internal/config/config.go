// Package config loads the engine's one piece of required
// configuration -- the daily cutoff hour the expiry task sweeps
// GoodForDay orders at -- plus the traded symbol used for logging and
// metrics labels. Values come from defaults, an optional config file,
// and LOB_-prefixed environment variables, in that order of increasing
// priority, via spf13/viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	defaultSymbol     = "UNKNOWN"
	defaultCutoffHour = 16
)

// Config is the engine's runtime configuration.
type Config struct {
	Symbol     string `mapstructure:"symbol"`
	CutoffHour int    `mapstructure:"cutoff_hour"`
}

// Default returns the engine's built-in defaults, used when no config
// file or environment override is present.
func Default() Config {
	return Config{Symbol: defaultSymbol, CutoffHour: defaultCutoffHour}
}

// Load builds a Config from defaults, an optional config file at path
// (ignored if empty), and LOB_-prefixed environment variables. It
// rejects a cutoff hour outside [0,23].
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("symbol", defaultSymbol)
	v.SetDefault("cutoff_hour", defaultCutoffHour)

	v.SetEnvPrefix("LOB")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 {
		return Config{}, fmt.Errorf("config: cutoff_hour %d out of range [0,23]", cfg.CutoffHour)
	}
	return cfg, nil
}
