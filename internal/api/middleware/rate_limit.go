package middleware

import (
	"net/http"
	"pulse/internal/config"
	"pulse/internal/models"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-client rate limiting using a token bucket
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration // limiters unused for this long are evicted
	window   int
	requests int
}

// NewRateLimiter creates a new rate limiter from cfg.RateLimit
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	requests := cfg.RateLimit.Requests
	window := cfg.RateLimit.Window
	burst := cfg.RateLimit.Burst
	if burst <= 0 || burst > requests {
		burst = requests
	}

	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Every(time.Duration(window) * time.Second / time.Duration(requests)),
		burst:    burst,
		idle:     time.Hour,
		window:   window,
		requests: requests,
	}
}

// getLimiter returns the limiter for key, creating it with a full bucket
func (rl *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// evictIdle drops limiters not used since now-idle and returns how many were removed
func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) >= rl.idle {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Run evicts idle limiters every interval until stop is closed
func (rl *RateLimiter) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.evictIdle(now)
		case <-stop:
			return
		}
	}
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		limiter := rl.getLimiter(c.ClientIP(), now)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))

		r := limiter.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			retryAfter := rl.window
			if r.OK() {
				retryAfter = int(r.DelayFrom(now).Seconds()) + 1
				// Give the token back; a rejected request must not consume future capacity
				r.CancelAt(now)
			}

			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(time.Duration(retryAfter)*time.Second).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		remaining := int(limiter.TokensAt(now))
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(time.Duration(rl.window)*time.Second).Unix(), 10))

		c.Next()
	}
}
