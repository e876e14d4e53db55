package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the token bucket limiter.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
	// PerClient keeps one bucket per remote host instead of a single
	// shared bucket.
	PerClient bool
}

// RateLimit rejects requests above the configured rate with 429.
func RateLimit(cfg RateLimitConfig) Middleware {
	if !cfg.Enabled {
		return passthrough
	}

	buckets := newBuckets(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	retryAfter := "1"
	if cfg.RequestsPerSecond > 0 && cfg.RequestsPerSecond < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))
	}
	key := func(*http.Request) string { return "" }
	if cfg.PerClient {
		key = clientHost
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !buckets.get(key(r)).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type buckets struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newBuckets(limit rate.Limit, burst int) *buckets {
	return &buckets{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (b *buckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.clients[key]
	if !ok {
		l = rate.NewLimiter(b.limit, b.burst)
		b.clients[key] = l
	}
	return l
}

func (b *buckets) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// clientHost is the remote host without the port. Forwarding headers are
// ignored: they are client controlled.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
