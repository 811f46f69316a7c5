package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arthome/graphpress/errors"
)

// sessionClaims extends standard JWT claims with the user binding.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// JWTManager signs and validates session tokens. A token binds its
// bearer to exactly one user id; nothing is stored server-side.
type JWTManager struct {
	secret      []byte
	tokenExpiry time.Duration // 0 = tokens never expire
}

// NewJWTManager creates a JWT manager. The secret comes from
// configuration and must be non-empty; there is no generated fallback,
// since a restart would silently invalidate every outstanding token.
func NewJWTManager(secret string, tokenExpiry time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	return &JWTManager{
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
	}, nil
}

// IssueToken creates a signed token whose payload carries userID.
func (m *JWTManager) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   "graphpress",
		},
		UserID: userID,
	}
	if m.tokenExpiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.tokenExpiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// VerifyToken parses and validates a token, returning the bound user id.
// Any failure (bad signature, malformed, expired, wrong algorithm) comes
// back as an auth error with no further detail.
func (m *JWTManager) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", errors.NewAuthError()
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", errors.NewAuthError()
	}
	return claims.UserID, nil
}
