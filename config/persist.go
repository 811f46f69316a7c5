package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthome/graphpress/errors"
)

// starterConfig is the shape written by WriteStarter. Separate from
// Config so the generated file carries toml tags and omits internals.
type starterConfig struct {
	Server struct {
		Port                  int      `toml:"port"`
		AllowedOrigins        []string `toml:"allowed_origins"`
		MutationRatePerSecond float64  `toml:"mutation_rate_per_second"`
		MutationRateBurst     int      `toml:"mutation_rate_burst"`
	} `toml:"server"`
	Store struct {
		Driver string `toml:"driver"`
		Path   string `toml:"path"`
		Demo   bool   `toml:"demo"`
	} `toml:"store"`
	Auth struct {
		SigningSecret string `toml:"signing_secret"`
		TokenExpiry   string `toml:"token_expiry"`
		BcryptCost    int    `toml:"bcrypt_cost"`
	} `toml:"auth"`
	Log struct {
		JSON bool `toml:"json"`
	} `toml:"log"`
}

// WriteStarter writes a commented-by-values starter config to path.
// It refuses to overwrite an existing file. The signing secret is left
// empty so the operator must fill it in before the server will start.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file %s already exists", path)
	}

	var sc starterConfig
	sc.Server.Port = DefaultServerPort
	sc.Server.AllowedOrigins = []string{}
	sc.Server.MutationRatePerSecond = 50.0
	sc.Server.MutationRateBurst = 100
	sc.Store.Driver = DriverMemory
	sc.Store.Path = "graphpress.db"
	sc.Auth.TokenExpiry = "0"
	sc.Auth.BcryptCost = 10

	data, err := toml.Marshal(sc)
	if err != nil {
		return errors.Wrap(err, "marshal starter config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write starter config")
	}
	return nil
}
