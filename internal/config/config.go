package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Google     GoogleConfig     `yaml:"google"`
	Cache      CacheConfig      `yaml:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Log        LogConfig        `yaml:"log"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8787"`
	Environment     string        `yaml:"environment"      env:"ENVIRONMENT"             env-default:"development"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	AllowedOrigins  []string      `yaml:"allowed_origins"  env:"CORS_ALLOWED_ORIGINS"    env-default:"http://localhost:5173,http://localhost:3000"`

	// RequiredServices names services that must be reachable at startup:
	// database, redis, google.
	RequiredServices []string `yaml:"required_services" env:"REQUIRED_SERVICES"`
}

// DatabaseConfig holds postgres connection settings. URL wins over the
// individual fields when set.
type DatabaseConfig struct {
	URL      string `yaml:"url"      env:"DATABASE_URL"`
	Host     string `yaml:"host"     env:"DB_HOST"     env-default:"localhost"`
	Port     string `yaml:"port"     env:"DB_PORT"     env-default:"5432"`
	User     string `yaml:"user"     env:"DB_USER"     env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name"     env:"DB_NAME"     env-default:"curlmap"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSLMODE"  env-default:"disable"`
}

// RedisConfig holds the shared cache settings. An empty host selects the
// in-process store.
type RedisConfig struct {
	Host     string `yaml:"host"     env:"REDIS_HOST"`
	Port     string `yaml:"port"     env:"REDIS_PORT"     env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
}

// GoogleConfig holds API keys for geocoding and places lookups.
type GoogleConfig struct {
	MapsAPIKey     string  `yaml:"maps_api_key"     env:"GOOGLE_MAPS_API_KEY"`
	PlacesAPIKey   string  `yaml:"places_api_key"   env:"GOOGLE_PLACES_API_KEY"`
	BaseURL        string  `yaml:"base_url"         env:"GOOGLE_MAPS_BASE_URL"    env-default:"https://maps.googleapis.com/maps/api"`
	RequestsPerSec float64 `yaml:"requests_per_sec" env:"GOOGLE_REQUESTS_PER_SEC" env-default:"10"`
}

// CacheConfig holds the directory cache settings.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" env:"CACHE_TTL" env-default:"3600"`
}

// RateLimitConfig holds the forum guard settings.
type RateLimitConfig struct {
	PostsPerHour        int `yaml:"posts_per_hour"        env:"RATE_LIMIT_POSTS_PER_HOUR"   env-default:"5"`
	DuplicateWindowHour int `yaml:"duplicate_window_hours" env:"RATE_LIMIT_DUPLICATE_WINDOW" env-default:"24"`
}

// EnrichmentConfig holds the places sync settings.
type EnrichmentConfig struct {
	SyncIntervalDays int           `yaml:"sync_interval_days" env:"GOOGLE_SYNC_INTERVAL_DAYS"   env-default:"7"`
	RefreshInterval  time.Duration `yaml:"refresh_interval"   env:"ENRICHMENT_REFRESH_INTERVAL" env-default:"0s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file"  env:"LOG_FILE"  env-default:"curlmap.log"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"       env:"OTEL_ENABLED"                env-default:"false"`
	Endpoint     string  `yaml:"endpoint"      env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	SamplingRate float64 `yaml:"sampling_rate" env:"OTEL_SAMPLING_RATE"          env-default:"1.0"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// TTL returns the directory cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DuplicateWindow returns how long accepted fingerprints are remembered.
func (r RateLimitConfig) DuplicateWindow() time.Duration {
	return time.Duration(r.DuplicateWindowHour) * time.Hour
}

// SyncInterval returns the places staleness window.
func (e EnrichmentConfig) SyncInterval() time.Duration {
	return time.Duration(e.SyncIntervalDays) * 24 * time.Hour
}
