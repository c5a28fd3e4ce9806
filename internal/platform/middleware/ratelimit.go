package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig sizes the per-client token buckets. A client whose bucket
// has not been touched for IdleTTL is forgotten; zero means 10 minutes.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	IdleTTL           time.Duration
}

const defaultIdleTTL = 10 * time.Minute

// DefaultRateLimitConfig allows 20 tool calls per second per client with
// bursts of 40.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 20,
		BurstSize:         40,
		IdleTTL:           defaultIdleTTL,
	}
}

// tokenBucket refills continuously at rate tokens per second up to burst.
// Its fields are guarded by the owning store's mutex.
type tokenBucket struct {
	tokens   float64
	burst    float64
	rate     float64
	refilled time.Time
	lastSeen time.Time
}

func newTokenBucket(rate float64, burst int, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:   float64(burst),
		burst:    float64(burst),
		rate:     rate,
		refilled: now,
		lastSeen: now,
	}
}

// take refills the bucket up to now and spends one token. When the bucket is
// empty it reports how many seconds until the next token.
func (b *tokenBucket) take(now time.Time) (ok bool, retryAfter int) {
	b.tokens = math.Min(b.burst, b.tokens+now.Sub(b.refilled).Seconds()*b.rate)
	b.refilled = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/b.rate) + 1
}

// clientLimiter keeps one bucket per client key and drops idle ones.
type clientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	cfg       RateLimitConfig
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(cfg RateLimitConfig) *clientLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	return &clientLimiter{
		buckets:   make(map[string]*tokenBucket),
		cfg:       cfg,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *clientLimiter) take(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.cfg.IdleTTL {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = newTokenBucket(l.cfg.RequestsPerSecond, l.cfg.BurstSize, now)
		l.buckets[key] = b
	}
	return b.take(now)
}

// sweep removes buckets idle for at least IdleTTL.
func (l *clientLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.cfg.IdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit limits tool calls per client IP and answers 429 with
// Retry-After once the client's bucket is empty.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	limiter := newClientLimiter(cfg)
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)

			ok, retryAfter := limiter.take(c.RealIP())
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
