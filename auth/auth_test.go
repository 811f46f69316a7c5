package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthome/graphpress/config"
	"github.com/arthome/graphpress/errors"
)

func testService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(&config.AuthConfig{
		SigningSecret: "test-secret",
		TokenExpiry:   "0",
		BcryptCost:    4, // minimum cost keeps the suite fast
	})
	require.NoError(t, err)
	return s
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(&config.AuthConfig{SigningSecret: ""})
	assert.Error(t, err)
}

func TestHashPasswordPolicy(t *testing.T) {
	s := testService(t)

	_, err := s.HashPassword("short77")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	hash, err := s.HashPassword("exactly8")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "exactly8", hash)
}

func TestVerifyPassword(t *testing.T) {
	s := testService(t)

	hash, err := s.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, s.VerifyPassword("correct horse", hash))
	assert.False(t, s.VerifyPassword("wrong horse", hash))
	assert.False(t, s.VerifyPassword("correct horse", "not-a-hash"))
}

func TestHashIsSalted(t *testing.T) {
	s := testService(t)

	h1, err := s.HashPassword("same password")
	require.NoError(t, err)
	h2, err := s.HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService(t)

	token, err := s.IssueToken("user-42")
	require.NoError(t, err)

	userID, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	s := testService(t)

	token, err := s.IssueToken("user-42")
	require.NoError(t, err)

	_, err = s.VerifyToken(token + "x")
	assert.True(t, errors.IsAuth(err))

	_, err = s.VerifyToken("not.a.token")
	assert.True(t, errors.IsAuth(err))

	// A token signed with a different secret must not verify.
	other, err := NewService(&config.AuthConfig{SigningSecret: "other-secret", BcryptCost: 4})
	require.NoError(t, err)
	foreign, err := other.IssueToken("user-42")
	require.NoError(t, err)
	_, err = s.VerifyToken(foreign)
	assert.True(t, errors.IsAuth(err))
}

func TestTokenExpiry(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Millisecond)
	require.NoError(t, err)

	token, err := mgr.IssueToken("user-42")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = mgr.VerifyToken(token)
	assert.True(t, errors.IsAuth(err))
}

func TestContextTokenPlumbing(t *testing.T) {
	ctx := context.Background()

	_, ok := TokenFromContext(ctx)
	assert.False(t, ok)

	ctx = ContextWithToken(ctx, "abc")
	token, ok := TokenFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestMiddlewareExtractsBearerToken(t *testing.T) {
	var seen string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = TokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "tok123", seen)

	seen = ""
	req = httptest.NewRequest(http.MethodGet, "/subscriptions/posts?token=tok456", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "tok456", seen)
}
