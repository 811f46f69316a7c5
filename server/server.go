// Package server is the HTTP/WebSocket front end for the content-graph
// engine. It stays thin: parse and validate argument shapes, attach the
// bearer token to the request context, call into the resolver and
// mutation service, and map taxonomy errors to status codes. All design
// content lives behind it.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arthome/graphpress/auth"
	"github.com/arthome/graphpress/config"
	"github.com/arthome/graphpress/graph"
	"github.com/arthome/graphpress/logger"
	"github.com/arthome/graphpress/mutation"
	"github.com/arthome/graphpress/pubsub"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server wires the engine components behind HTTP.
type Server struct {
	cfg       config.ServerConfig
	resolver  *graph.Resolver
	mutations *mutation.Service
	router    *pubsub.Router
	log       *zap.SugaredLogger

	mu      sync.RWMutex
	limiter *rate.Limiter

	httpServer *http.Server
	wg         sync.WaitGroup
}

// New creates a server over the given engine components.
func New(cfg config.ServerConfig, resolver *graph.Resolver, mutations *mutation.Service, router *pubsub.Router, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.Logger
	}
	s := &Server{
		cfg:       cfg,
		resolver:  resolver,
		mutations: mutations,
		router:    router,
		log:       log,
		limiter:   newLimiter(cfg.MutationRatePerSecond, cfg.MutationRateBurst),
	}
	return s
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetMutationRate swaps the mutation rate limit. Called by the config
// watcher on hot reload.
func (s *Server) SetMutationRate(perSecond float64, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = newLimiter(perSecond, burst)
	s.log.Infow("Mutation rate limit updated",
		"rate_per_second", perSecond,
		"burst", burst,
	)
}

func (s *Server) allowMutation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limiter.Allow()
}

// Port returns the configured port or the default.
func (s *Server) Port() int {
	if s.cfg.Port != nil {
		return *s.cfg.Port
	}
	return config.DefaultServerPort
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully and cancels all active subscriptions.
func (s *Server) Start(ctx context.Context) error {
	mux := s.routes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port()),
		Handler: auth.Middleware(s.logRequests(mux)),
	}

	errCh := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.log.Infow("Server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infow("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	// Tear down subscriptions first so WebSocket writers exit.
	s.router.Close()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warnw("Graceful shutdown incomplete", logger.FieldError, err)
	}
	s.wg.Wait()
	return nil
}

// logRequests logs every request with method, path and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debugw("Request handled",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	})
}

// rateLimited guards mutation endpoints with the token bucket.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.allowMutation() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}
