package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/util"
	"go.uber.org/zap"
)

const storeRateLimitPrefix = "ratelimit:"

// StoreRateLimitMiddleware is a fixed-window limiter kept in the shared cache
// store, so every instance behind a load balancer sees the same counts. When
// the store fails the request is let through and the failure logged.
func StoreRateLimitMiddleware(store cache.Store, config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}

	return func(c *gin.Context) {
		key := storeRateLimitPrefix + routeLabel(c) + ":" + config.KeyFunc(c)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		n, err := store.IncrWindow(ctx, key, config.Window)
		if err != nil {
			logger.Log.Warn("Rate limit store unavailable, allowing request",
				logger.WithIP(c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		remaining := int64(config.Limit) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(config.Limit) {
			retryAfter := config.Window
			if ttl, err := store.TTL(ctx, key); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			logger.Log.Warn("Rate limit exceeded",
				logger.WithIP(c.ClientIP()),
				zap.String("route", routeLabel(c)),
				zap.Int64("requests", n),
			)
			RecordRateLimitExceeded(routeLabel(c), c.Request.Method)
			util.RespondRateLimited(c, "rate limit exceeded")
			return
		}

		c.Next()
	}
}
