package config

import (
	"time"

	"github.com/arthome/graphpress/errors"
)

// Validate checks that the configuration can run a server. The signing
// secret is required here rather than defaulted: starting without one
// would mean issuing tokens against a guessable key.
func (c *Config) Validate() error {
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.New("server.port cannot be 0 (omit for the default port)")
	}
	if c.Server.Port != nil && *c.Server.Port < 0 {
		return errors.Newf("server.port must be positive, got %d", *c.Server.Port)
	}
	if c.Server.MutationRatePerSecond < 0 {
		return errors.Newf("server.mutation_rate_per_second must be >= 0, got %f", c.Server.MutationRatePerSecond)
	}
	if c.Server.MutationRateBurst < 0 {
		return errors.Newf("server.mutation_rate_burst must be >= 0, got %d", c.Server.MutationRateBurst)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path cannot be empty with the sqlite driver")
		}
	default:
		return errors.Newf("store.driver must be %q or %q, got %q", DriverMemory, DriverSQLite, c.Store.Driver)
	}

	if c.Auth.SigningSecret == "" {
		return errors.New("auth.signing_secret is required (set it in graphpress.toml or GRAPHPRESS_AUTH_SIGNING_SECRET)")
	}
	if _, err := c.Auth.TokenExpiryDuration(); err != nil {
		return err
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return errors.Newf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}

	return nil
}

// TokenExpiryDuration parses the configured token expiry. Empty and "0"
// both mean tokens never expire, matching the reference behavior.
func (a *AuthConfig) TokenExpiryDuration() (time.Duration, error) {
	if a.TokenExpiry == "" || a.TokenExpiry == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.TokenExpiry)
	if err != nil {
		return 0, errors.Wrapf(err, "auth.token_expiry %q is not a duration", a.TokenExpiry)
	}
	if d < 0 {
		return 0, errors.Newf("auth.token_expiry must be >= 0, got %s", a.TokenExpiry)
	}
	return d, nil
}
