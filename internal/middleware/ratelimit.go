package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultLimiterIdleTTL is how long an idle client's bucket is kept.
	DefaultLimiterIdleTTL = 10 * time.Minute
	// DefaultLimiterMaxEntries caps the number of tracked clients.
	DefaultLimiterMaxEntries = 10000
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter limits requests per client IP using a token bucket per IP.
// Proxy headers are only used to identify the client when TrustProxy is set.
type IPRateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*limiterEntry
	lastSweep time.Time

	limit rate.Limit
	burst int

	TrustProxy bool
	IdleTTL    time.Duration
	MaxEntries int

	now func() time.Time
}

// NewIPRateLimiter creates a per-IP rate limiter allowing rps requests per
// second with bursts up to burst.
func NewIPRateLimiter(rps float64, burst int, trustProxy bool) *IPRateLimiter {
	return &IPRateLimiter{
		ips:        make(map[string]*limiterEntry),
		limit:      rate.Limit(rps),
		burst:      burst,
		TrustProxy: trustProxy,
		IdleTTL:    DefaultLimiterIdleTTL,
		MaxEntries: DefaultLimiterMaxEntries,
		now:        time.Now,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.ips[ip]; ok {
		e.lastSeen = now
		return e.lim
	}

	if l.full() || (l.IdleTTL > 0 && now.Sub(l.lastSweep) >= l.IdleTTL) {
		l.sweep(now)
	}

	e := &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
	l.ips[ip] = e
	return e.lim
}

// sweep drops idle buckets, then the least recently seen ones while the map
// is still full. Callers hold l.mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	l.lastSweep = now
	if l.IdleTTL > 0 {
		for ip, e := range l.ips {
			if now.Sub(e.lastSeen) >= l.IdleTTL {
				delete(l.ips, ip)
			}
		}
	}
	for l.full() {
		var (
			oldestIP string
			oldest   time.Time
			found    bool
		)
		for ip, e := range l.ips {
			if !found || e.lastSeen.Before(oldest) {
				oldestIP, oldest, found = ip, e.lastSeen, true
			}
		}
		delete(l.ips, oldestIP)
	}
}

// full reports whether MaxEntries is set and reached. Callers hold l.mu.
func (l *IPRateLimiter) full() bool {
	return l.MaxEntries > 0 && len(l.ips) >= l.MaxEntries
}

// Len reports how many clients currently have a bucket.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// clientIP returns RemoteAddr without its port. With trustProxy it prefers
// X-Forwarded-For, then X-Real-IP.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// First value is the client when behind a single proxy
			return strings.TrimSpace(strings.Split(xff, ",")[0])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware returns a chi-compatible middleware that returns 429 when the client IP exceeds the rate.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(clientIP(r, l.TrustProxy)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
