package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func guardedHandler(next http.Handler, perMin int) http.Handler {
	return wrapHTTPHandler(next, HTTPHandlerConfig{
		AuthToken:       "secret",
		RateLimitPerMin: perMin,
		MaxBodyBytes:    1 << 20,
	})
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/mcp", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestGuardRejectsMissingOrBadToken(t *testing.T) {
	h := guardedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), 60)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("wrong"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGuardAllowsValidToken(t *testing.T) {
	called := false
	h := guardedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), 60)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("secret"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatal("expected wrapped handler to be invoked")
	}
}

func TestGuardRateLimitsPerClient(t *testing.T) {
	h := guardedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), 1)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("secret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("secret"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be rate-limited, got %d", rec.Code)
	}
}

func TestGuardRejectedRequestsSpendNoBudget(t *testing.T) {
	h := guardedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), 1)

	// Failed auth must not consume the single token in the bucket.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("wrong"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("secret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected authed request to pass, got %d", rec.Code)
	}
}

func TestRequestLimiterCapsBurst(t *testing.T) {
	limiter := newRequestLimiter(6000)
	if limiter.burst != guardMaxBurst {
		t.Fatalf("expected burst cap %d, got %v", guardMaxBurst, limiter.burst)
	}

	allowed := 0
	for i := 0; i < guardMaxBurst+5; i++ {
		if limiter.Allow("client") {
			allowed++
		}
	}
	if allowed != guardMaxBurst {
		t.Fatalf("expected %d immediate requests, got %d", guardMaxBurst, allowed)
	}
}

func TestRequestLimiterKeysAreIndependent(t *testing.T) {
	limiter := newRequestLimiter(1)

	if !limiter.Allow("a@127.0.0.1") {
		t.Fatal("expected first client to pass")
	}
	if limiter.Allow("a@127.0.0.1") {
		t.Fatal("expected first client to be limited")
	}
	if !limiter.Allow("a@10.0.0.1") {
		t.Fatal("expected second client to have its own budget")
	}
}

func TestGuardCapsRequestBody(t *testing.T) {
	var readErr error
	h := wrapHTTPHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for {
			_, err := r.Body.Read(buf)
			if err != nil {
				if err.Error() != "EOF" {
					readErr = err
				}
				break
			}
		}
		w.WriteHeader(http.StatusOK)
	}), HTTPHandlerConfig{AuthToken: "secret", RateLimitPerMin: 60, MaxBodyBytes: 8})

	req := httptest.NewRequest(http.MethodPost, "http://example.com/mcp", strings.NewReader(strings.Repeat("x", 64)))
	req.RemoteAddr = "127.0.0.1:1234"
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if readErr == nil {
		t.Fatal("expected oversized body read to fail")
	}
}
