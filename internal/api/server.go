// Package api serves the board over HTTP.
// GET endpoints are public (read-only observation of the battlefield).
// POST endpoints mutate the board and require a bearer token.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/talgya/hexarena/internal/persistence"
	"github.com/talgya/hexarena/internal/session"
)

// Server exposes one board session over HTTP. The engine itself is
// single-threaded; the server serializes all access behind mu so handler
// goroutines never touch the grid concurrently.
type Server struct {
	mu       sync.Mutex
	Session  *session.Session
	DB       *persistence.DB // nil disables save/load endpoints
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	started time.Time
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.started = time.Now()

	// Mutations are cheap but unauthenticated floods would thrash the
	// caches, so POSTs share a per-IP budget.
	mutateLimiter := NewRateLimiter(600, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/board", s.handleBoard)
	mux.HandleFunc("/api/v1/engagements", s.handleEngagements)
	mux.HandleFunc("/api/v1/path", s.handlePath)
	mux.HandleFunc("/api/v1/maps", s.handleMaps)
	mux.HandleFunc("/api/v1/sessions", s.handleSessions)

	// Mutation endpoints (POST, bearer token, rate limited).
	mux.HandleFunc("/api/v1/place", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handlePlace)))
	mux.HandleFunc("/api/v1/remove", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handleRemove)))
	mux.HandleFunc("/api/v1/move", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handleMove)))
	mux.HandleFunc("/api/v1/swap", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handleSwap)))
	mux.HandleFunc("/api/v1/clear", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handleClear)))
	mux.HandleFunc("/api/v1/tile", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handleTileState)))
	mux.HandleFunc("/api/v1/map", s.adminOnly(RateLimitMiddleware(mutateLimiter, s.handleSwitchMap)))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))
	mux.HandleFunc("/api/v1/load", s.adminOnly(s.handleLoad))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "persistence", s.DB != nil)

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra allowed origins;
// localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request carries the admin token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires POST plus a valid bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "mutation endpoints disabled", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
