package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Load reads configuration from an optional YAML file and the environment.
// Priority: ENV > YAML > env-default tags. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate performs range checks on the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Server.Port)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0 (got %d)", c.Cache.TTLSeconds)
	}
	if c.RateLimit.PostsPerHour <= 0 {
		return fmt.Errorf("RATE_LIMIT_POSTS_PER_HOUR must be > 0 (got %d)", c.RateLimit.PostsPerHour)
	}
	if c.RateLimit.DuplicateWindowHour <= 0 {
		return fmt.Errorf("RATE_LIMIT_DUPLICATE_WINDOW must be > 0 (got %d)", c.RateLimit.DuplicateWindowHour)
	}
	if c.Enrichment.SyncIntervalDays <= 0 {
		return fmt.Errorf("GOOGLE_SYNC_INTERVAL_DAYS must be > 0 (got %d)", c.Enrichment.SyncIntervalDays)
	}
	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATE must be within [0,1] (got %v)", c.Telemetry.SamplingRate)
	}
	return nil
}
