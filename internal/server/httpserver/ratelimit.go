package httpserver

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
	"github.com/augejs/tokenstore-go/pkg/cmap"
)

// limiterRegistry keeps one token bucket per client IP.
type limiterRegistry struct {
	limiters *cmap.Map[*rate.Limiter]
	rps      rate.Limit
	burst    int
}

func newLimiterRegistry(rps float64, burst int) *limiterRegistry {
	return &limiterRegistry{
		limiters: cmap.New[*rate.Limiter](),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (r *limiterRegistry) get(clientIP string) *rate.Limiter {
	if limiter, ok := r.limiters.Get(clientIP); ok {
		return limiter
	}

	// A concurrent first request may race here; both limiters start
	// full, so whichever Set wins the outcome is the same.
	limiter := rate.NewLimiter(r.rps, r.burst)
	r.limiters.Set(clientIP, limiter)
	return limiter
}

// RateLimit rejects clients that exceed rps sustained requests per
// second with the given burst headroom.
func RateLimit(rps float64, burst int, metrics *metric.Metrics) Middleware {
	registry := newLimiterRegistry(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !registry.get(getClientIP(r)).Allow() {
				metrics.RateLimited()
				w.Header().Set("Retry-After", "1")
				writeErrorCode(w, "TS-SYS-4290", "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
