package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "user 42")
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "user 42")
	assert.Contains(t, err.Error(), "not found")
}

func TestTaxonomyPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", NewValidationError("password must be %d characters or longer", 8), IsValidation},
		{"conflict", NewConflictError("email taken"), IsConflict},
		{"not found", NewNotFoundError("user %s", "abc"), IsNotFound},
		{"auth", NewAuthError(), IsAuth},
		{"infrastructure", NewInfrastructureError(New("disk gone"), "open store"), IsInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, tt.check(tt.err))

			// Each error belongs to exactly one category.
			count := 0
			for _, pred := range []func(error) bool{IsValidation, IsConflict, IsNotFound, IsAuth, IsInfrastructure} {
				if pred(tt.err) {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

func TestPredicatesOnNil(t *testing.T) {
	assert.False(t, IsValidation(nil))
	assert.False(t, IsConflict(nil))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsAuth(nil))
	assert.False(t, IsInfrastructure(nil))
}

func TestAuthErrorIsGeneric(t *testing.T) {
	// The auth error never carries detail about which check failed.
	assert.Equal(t, ErrAuth.Error(), NewAuthError().Error())
}

func TestWrappedDomainErrorSurvivesFurtherWrapping(t *testing.T) {
	err := NewConflictError("email %s already in use", "a@b.c")
	err = Wrap(err, "create user")
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "create user")
}
