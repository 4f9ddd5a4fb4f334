package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

// RateLimitConfig bounds how often one client may start preview or
// generation work. A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// KeyFunc defaults to the client IP. RealIP must run first for proxied traffic.
	KeyFunc func(r *http.Request) string
	// IdleTTL is how long an untouched bucket is kept.
	IdleTTL time.Duration
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter is an in-process limiter keyed by client. Idle buckets
// are swept on the request path, so there is no goroutine to stop.
type TokenBucketLimiter struct {
	rate    float64
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time
}

func NewTokenBucketLimiter(rate float64, burst int, idleTTL time.Duration) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 5 * time.Minute
	}
	return &TokenBucketLimiter{
		rate:    rate,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
	}
}

// Allow takes one token for key. When denied, retryAfter is the wait until
// the next token.
func (l *TokenBucketLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), lastRefill: now}
		l.buckets[key] = b
	}
	b.tokens = math.Min(float64(l.burst), b.tokens+now.Sub(b.lastRefill).Seconds()*l.rate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	wait := time.Duration((1 - b.tokens) / l.rate * float64(time.Second))
	return false, 0, wait
}

func (l *TokenBucketLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastRefill) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// BucketCount reports the number of tracked clients.
func (l *TokenBucketLimiter) BucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit rejects requests over the configured rate with 429 and a
// Retry-After header.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	if config.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := NewTokenBucketLimiter(config.RequestsPerSecond, config.BurstSize, config.IdleTTL)
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = clientIP
	}
	body, _ := json.Marshal(map[string]string{
		"code":    string(errors.ErrCodeTooManyRequests),
		"message": "rate limit exceeded, retry later",
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retryAfter := limiter.Allow(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write(body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
