package mcp

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultGuardMaxBodyBytes int64 = 1 << 20 // 1MiB, indicator calls are tiny JSON

	// Every tool call fans out to an exchange API, so the per-client burst
	// is capped well below the per-minute budget.
	defaultGuardRatePerMin = 60
	guardMaxBurst          = 30
)

// HTTPHandlerConfig hardens the streamable HTTP transport: a static bearer
// token, a per-client request budget, and a request body cap.
type HTTPHandlerConfig struct {
	AuthToken       string
	RateLimitPerMin int
	MaxBodyBytes    int64
}

// httpGuard fronts the MCP handler. Checks run in order: bearer token,
// request budget, body cap. Unauthenticated traffic never consumes budget.
type httpGuard struct {
	token    string
	requests *requestLimiter
	maxBody  int64
}

func wrapHTTPHandler(base http.Handler, cfg HTTPHandlerConfig) http.Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultGuardMaxBodyBytes
	}
	g := &httpGuard{
		token:    cfg.AuthToken,
		requests: newRequestLimiter(cfg.RateLimitPerMin),
		maxBody:  maxBody,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r)
		if !ok {
			writeGuardError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if g.token == "" || bearer != g.token {
			writeGuardError(w, http.StatusForbidden, "invalid bearer token")
			return
		}
		if !g.requests.Allow(clientKey(r)) {
			writeGuardError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, g.maxBody)
		}
		base.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return token, token != ""
}

// clientKey buckets requests by token and source host, so one leaked token
// cannot starve clients calling from a different address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	if host == "" {
		host = "unknown"
	}
	if token, ok := bearerToken(r); ok {
		return token + "@" + host
	}
	return host
}

// requestLimiter is a token bucket per client key, refilled continuously at
// the configured per-minute rate.
type requestLimiter struct {
	mu      sync.Mutex
	perSec  float64
	burst   float64
	clients map[string]*requestBucket
}

type requestBucket struct {
	tokens   float64
	refilled time.Time
}

func newRequestLimiter(perMin int) *requestLimiter {
	if perMin <= 0 {
		perMin = defaultGuardRatePerMin
	}
	burst := float64(perMin)
	if burst > guardMaxBurst {
		burst = guardMaxBurst
	}
	return &requestLimiter{
		perSec:  float64(perMin) / 60.0,
		burst:   burst,
		clients: make(map[string]*requestBucket),
	}
}

func (l *requestLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[key]
	if !ok {
		l.clients[key] = &requestBucket{tokens: l.burst - 1, refilled: now}
		return true
	}

	if elapsed := now.Sub(b.refilled).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.perSec
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
	}
	b.refilled = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func writeGuardError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
