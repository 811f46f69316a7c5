package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/arthome/graphpress/errors"
)

// Load reads configuration from graphpress.toml in the working directory
// (when present), layered over defaults, with GRAPHPRESS_* environment
// variables taking precedence (e.g. GRAPHPRESS_AUTH_SIGNING_SECRET).
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigName("graphpress")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GRAPHPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults + env still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path, layered
// over defaults and environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.SetEnvPrefix("GRAPHPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config from %s", configPath)
	}
	return &cfg, nil
}
