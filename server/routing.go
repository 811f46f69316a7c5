package server

import (
	"net/http"
	"strings"
)

// routes configures all HTTP handlers.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Queries
	mux.HandleFunc("GET /api/users", s.corsMiddleware(s.HandleUsers))
	mux.HandleFunc("GET /api/posts", s.corsMiddleware(s.HandlePosts))
	mux.HandleFunc("GET /api/comments", s.corsMiddleware(s.HandleComments))
	mux.HandleFunc("GET /api/me", s.corsMiddleware(s.HandleMe))
	mux.HandleFunc("GET /api/post", s.corsMiddleware(s.HandlePost))

	// Mutations (rate limited)
	mux.HandleFunc("POST /api/users", s.corsMiddleware(s.rateLimited(s.HandleCreateUser)))
	mux.HandleFunc("POST /api/login", s.corsMiddleware(s.rateLimited(s.HandleLogin)))
	mux.HandleFunc("PATCH /api/users/{id}", s.corsMiddleware(s.rateLimited(s.HandleUpdateUser)))
	mux.HandleFunc("DELETE /api/users/{id}", s.corsMiddleware(s.rateLimited(s.HandleDeleteUser)))
	mux.HandleFunc("POST /api/posts", s.corsMiddleware(s.rateLimited(s.HandleCreatePost)))
	mux.HandleFunc("PATCH /api/posts/{id}", s.corsMiddleware(s.rateLimited(s.HandleUpdatePost)))
	mux.HandleFunc("DELETE /api/posts/{id}", s.corsMiddleware(s.rateLimited(s.HandleDeletePost)))
	mux.HandleFunc("POST /api/comments", s.corsMiddleware(s.rateLimited(s.HandleCreateComment)))
	mux.HandleFunc("PATCH /api/comments/{id}", s.corsMiddleware(s.rateLimited(s.HandleUpdateComment)))
	mux.HandleFunc("DELETE /api/comments/{id}", s.corsMiddleware(s.rateLimited(s.HandleDeleteComment)))

	// Subscriptions (WebSocket)
	mux.HandleFunc("GET /subscriptions/posts", s.corsMiddleware(s.HandleSubscribePosts))
	mux.HandleFunc("GET /subscriptions/comments", s.corsMiddleware(s.HandleSubscribeComments))

	// Operational
	mux.HandleFunc("GET /healthz", s.corsMiddleware(s.HandleHealth))
	mux.HandleFunc("GET /version", s.corsMiddleware(s.HandleVersion))

	// CORS preflight for the API surface.
	mux.HandleFunc("OPTIONS /", s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {}))

	return mux
}

// corsMiddleware sets CORS headers for origins allowed by config and
// answers preflight requests.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// originAllowed validates an Origin header against configured allowed
// origins. Prefix matching allows any port number. An empty allow list
// falls back to localhost only.
func (s *Server) originAllowed(origin string) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost")
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}
