// Package config provides layered configuration for GraphPress:
// defaults, a TOML config file, and GRAPHPRESS_* environment overrides.
package config

// Config represents the GraphPress configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP/WebSocket front end.
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // nil = default 8480, 0 is invalid (omit for default)
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Token-bucket limit applied to mutation endpoints. Hot-reloadable
	// through the config watcher.
	MutationRatePerSecond float64 `mapstructure:"mutation_rate_per_second"`
	MutationRateBurst     int     `mapstructure:"mutation_rate_burst"`
}

// DefaultServerPort is used when server.port is omitted.
const DefaultServerPort = 8480

// StoreConfig selects and configures the entity store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "sqlite"
	Path   string `mapstructure:"path"`   // sqlite database file
	Demo   bool   `mapstructure:"demo"`   // seed demo fixtures at startup
}

// Store driver names.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// AuthConfig configures credential hashing and session tokens.
//
// SigningSecret has no default and no fallback: a missing secret is a
// fatal configuration error at startup, never a silently generated or
// hardcoded value.
type AuthConfig struct {
	SigningSecret string `mapstructure:"signing_secret"`
	TokenExpiry   string `mapstructure:"token_expiry"` // duration; empty or "0" = tokens never expire
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}
