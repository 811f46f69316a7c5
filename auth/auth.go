// Package auth hashes credentials and issues/validates signed session
// tokens for GraphPress.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/arthome/graphpress/config"
	"github.com/arthome/graphpress/errors"
)

// MinPasswordLength is the policy minimum for new passwords.
const MinPasswordLength = 8

// Service bundles password hashing and token management.
type Service struct {
	jwt  *JWTManager
	cost int
}

// NewService creates an auth service from configuration. Fails when the
// signing secret is missing or the token expiry is unparseable.
func NewService(cfg *config.AuthConfig) (*Service, error) {
	expiry, err := cfg.TokenExpiryDuration()
	if err != nil {
		return nil, err
	}
	mgr, err := NewJWTManager(cfg.SigningSecret, expiry)
	if err != nil {
		return nil, err
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{jwt: mgr, cost: cost}, nil
}

// HashPassword validates the password policy and returns a salted bcrypt
// hash of the plaintext.
func (s *Service) HashPassword(plaintext string) (string, error) {
	if len(plaintext) < MinPasswordLength {
		return "", errors.NewValidationError("password must be %d characters or longer", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func (s *Service) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueToken produces a signed session token bound to userID.
func (s *Service) IssueToken(userID string) (string, error) {
	return s.jwt.IssueToken(userID)
}

// VerifyToken validates a session token and returns the bound user id.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.jwt.VerifyToken(token)
}
