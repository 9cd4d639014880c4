package middleware

import (
	"net/http"
	"time"

	"github.com/crucial707/userposts/internal/metrics"
)

// Prometheus records request duration and count for each request, labelled by
// chi route pattern so /users/1 and /users/2 share one series.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrap, r)
		if r.URL.Path == "/metrics" {
			return
		}
		metrics.RecordRequest(r.Method, routePattern(r), wrap.status, time.Since(start).Seconds())
	})
}
