package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestIPRateLimiter_BlocksAfterBurst(t *testing.T) {
	lim := NewIPRateLimiter(0.001, 2, false)
	h := lim.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/users", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes: %v", codes)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest("GET", "/users", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("second client: got %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Real-IP", "198.51.100.7")
	if got := clientIP(req, false); got != "192.0.2.1" {
		t.Errorf("untrusted headers must be ignored: got %q", got)
	}
	if got := clientIP(req, true); got != "198.51.100.7" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req, true); got != "203.0.113.9" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestIPRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	lim := NewIPRateLimiter(1, 1, false)
	h := lim.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "/users", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == http.StatusOK {
			allowed++
		}
	}

	if allowed != 1 {
		t.Errorf("allowed %d of 100 requests from one address, want 1", allowed)
	}
	if n := lim.Len(); n != 1 {
		t.Errorf("limiter entries: got %d, want 1", n)
	}
}

func TestIPRateLimiter_TrustProxyKeysOnHeader(t *testing.T) {
	lim := NewIPRateLimiter(0.001, 1, true)
	h := lim.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest("GET", "/users", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", client)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("client %s behind proxy: got %d", client, rr.Code)
		}
	}
}

func TestIPRateLimiter_EvictsIdleEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim := NewIPRateLimiter(1, 1, false)
	lim.IdleTTL = time.Minute
	lim.now = func() time.Time { return now }

	lim.getLimiter("192.0.2.1")
	lim.getLimiter("192.0.2.2")
	if n := lim.Len(); n != 2 {
		t.Fatalf("entries: got %d, want 2", n)
	}

	now = now.Add(2 * time.Minute)
	lim.getLimiter("192.0.2.3")
	if n := lim.Len(); n != 1 {
		t.Errorf("idle entries should be swept: got %d, want 1", n)
	}
}

func TestIPRateLimiter_MaxEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim := NewIPRateLimiter(1, 1, false)
	lim.MaxEntries = 3
	lim.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		lim.getLimiter(fmt.Sprintf("192.0.2.%d", i))
	}

	if n := lim.Len(); n != 3 {
		t.Fatalf("entries: got %d, want 3", n)
	}
	lim.mu.Lock()
	_, newest := lim.ips["192.0.2.9"]
	_, oldest := lim.ips["192.0.2.0"]
	lim.mu.Unlock()
	if !newest || oldest {
		t.Errorf("least recently seen entries should be evicted first")
	}
}

func TestRecoverer(t *testing.T) {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(prev)

	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Errorf("body: %s", rr.Body.String())
	}
}

func TestRequestLog_UsesRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	r := chi.NewRouter()
	r.Use(RequestLog)
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/users/42", nil))

	out := buf.String()
	if !strings.Contains(out, "route=/users/{id}") || !strings.Contains(out, "status=418") || !strings.Contains(out, "size=2") {
		t.Errorf("unexpected log line: %q", out)
	}
}

func TestMaxBytes_DeclaredLengthRejected(t *testing.T) {
	called := false
	h := MaxBytes(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/", strings.NewReader("too long")))

	if called {
		t.Error("handler must not run for an oversized body")
	}
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"request body too large"`) {
		t.Errorf("body: %s", rr.Body.String())
	}
}

func TestMaxBytes_UnknownLengthCutOff(t *testing.T) {
	var readErr error
	h := MaxBytes(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest("POST", "/", strings.NewReader("too long"))
	req.ContentLength = -1
	h.ServeHTTP(httptest.NewRecorder(), req)

	var tooLarge *http.MaxBytesError
	if readErr == nil || !errors.As(readErr, &tooLarge) {
		t.Errorf("expected *http.MaxBytesError, got %v", readErr)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("missing headers: %v", rr.Header())
	}
}
