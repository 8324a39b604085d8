package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/util"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc picks the bucket a request counts against
	KeyFunc func(c *gin.Context) string
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// DefaultRateLimitConfig allows 100 requests a minute per client IP
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   100,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

// WriteRateLimitConfig is the burst limit for forum writes
func WriteRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   20,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

// AdminRateLimitConfig is the limit for cache maintenance endpoints
func AdminRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   10,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	config   RateLimitConfig
	every    rate.Limit
	mu       sync.Mutex
	visitors map[string]*visitor
}

func newRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}
	return &RateLimiter{
		config:   config,
		every:    rate.Limit(float64(config.Limit) / config.Window.Seconds()),
		visitors: make(map[string]*visitor),
	}
}

// NewRateLimiter creates an in-memory token bucket middleware. Each key may
// burst up to Limit and refills at Limit per Window.
func NewRateLimiter(config RateLimitConfig) gin.HandlerFunc {
	rl := newRateLimiter(config)

	return func(c *gin.Context) {
		r := rl.reserve(rl.config.KeyFunc(c))
		if !r.OK() {
			rl.reject(c, rl.config.Window)
			return
		}
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			rl.reject(c, delay)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) reserve(key string) *rate.Reservation {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.config.Limit)}
		rl.visitors[key] = v
		rl.pruneLocked(now)
	}
	v.lastSeen = now
	return v.limiter.ReserveN(now, 1)
}

// pruneLocked drops buckets idle long enough to have fully refilled
func (rl *RateLimiter) pruneLocked(now time.Time) {
	if len(rl.visitors) < 1024 {
		return
	}
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.config.Window {
			delete(rl.visitors, k)
		}
	}
}

func (rl *RateLimiter) reject(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
	c.Header("X-RateLimit-Remaining", "0")
	RecordRateLimitExceeded(routeLabel(c), c.Request.Method)
	util.RespondRateLimited(c, "rate limit exceeded")
}
