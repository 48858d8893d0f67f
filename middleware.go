package main

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"coffeeintel/dashboard"
)

type ctxKey string

const dashboardKey ctxKey = "dashboard"

// sessionMiddleware resolves the Bearer token to an open dashboard and injects it into context.
func (a *App) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")
		sid, err := parseSessionToken(a.cfg.SessionSecret, raw)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		d, err := a.sessions.Get(sid)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), dashboardKey, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// mustDashboard returns the dashboard from context. Only valid behind sessionMiddleware.
func mustDashboard(r *http.Request) *dashboard.Dashboard {
	return r.Context().Value(dashboardKey).(*dashboard.Dashboard)
}

// requestLogger logs method, route, status and duration at debug level.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// promptLimiter is a token bucket per dashboard session.
type promptLimiter struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

func newPromptLimiter(perSec float64, burst int) *promptLimiter {
	if burst < 1 {
		burst = 1
	}
	return &promptLimiter{perSec: rate.Limit(perSec), burst: burst, buckets: make(map[string]*rate.Limiter)}
}

func (l *promptLimiter) allow(id string) bool {
	l.mu.Lock()
	lim, ok := l.buckets[id]
	if !ok {
		lim = rate.NewLimiter(l.perSec, l.burst)
		l.buckets[id] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// forget drops the bucket of a disposed session.
func (l *promptLimiter) forget(id string) {
	l.mu.Lock()
	delete(l.buckets, id)
	l.mu.Unlock()
}

// rateLimit rejects prompt bursts beyond the per-session budget.
func (a *App) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.limiter.allow(mustDashboard(r).ID()) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
