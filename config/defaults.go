package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
// auth.signing_secret deliberately has no default.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.mutation_rate_per_second", 50.0)
	v.SetDefault("server.mutation_rate_burst", 100)

	// Store defaults
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.path", "graphpress.db")
	v.SetDefault("store.demo", false)

	// Auth defaults
	v.SetDefault("auth.token_expiry", "0") // reference behavior: no expiry
	v.SetDefault("auth.bcrypt_cost", 10)

	// Log defaults
	v.SetDefault("log.json", false)
}
