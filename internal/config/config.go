package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration of the acalib command.
// Values are populated from .acalib.yaml, ACALIB_* env vars, and CLI flags.
type Config struct {
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	SeqURL           string `mapstructure:"seq_url"`
	Collapse         string `mapstructure:"collapse"`
	DefaultUnit      string `mapstructure:"default_unit"`
	Format           string `mapstructure:"format"`
	SkipPrimaryImage bool   `mapstructure:"skip_primary_image"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("seq_url", "")
	viper.SetDefault("collapse", "sum")
	viper.SetDefault("default_unit", "Jy/beam")
	viper.SetDefault("format", "text")
	viper.SetDefault("skip_primary_image", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
