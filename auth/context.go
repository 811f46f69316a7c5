package auth

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const tokenContextKey contextKey = "auth_token"

// ContextWithToken attaches a raw bearer token to the request context.
// The front end calls this for every request; only Me() ever reads it.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext extracts the bearer token attached by the front end.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}
