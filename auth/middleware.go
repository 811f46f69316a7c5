package auth

import (
	"net/http"
	"strings"
)

// Middleware attaches the request's bearer token, if any, to the request
// context. It does not reject unauthenticated requests: operations that
// need a caller identity (Me) fail on their own when the token is
// missing or invalid.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractToken(r); token != "" {
			r = r.WithContext(ContextWithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken pulls the token from the Authorization header or, for
// WebSocket upgrades where headers are awkward, the token query param.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
