package cache

import (
	"github.com/zfogg/curlmap/backend/internal/config"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"go.uber.org/zap"
)

// NewStore returns a Redis-backed store when a host is configured, falling
// back to the in-process store when it is not or when Redis is unreachable.
func NewStore(cfg config.RedisConfig) Store {
	if cfg.Host == "" {
		logger.Log.Info("REDIS_HOST not set, using in-memory cache store")
		return NewMemoryStore()
	}

	rc, err := NewRedisClient(cfg.Host, cfg.Port, cfg.Password)
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory cache store",
			zap.String("host", cfg.Host),
			zap.Error(err),
		)
		return NewMemoryStore()
	}
	return rc
}
