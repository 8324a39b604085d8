// Package container wires the curlmap services together from configuration.
// The server and the CLI build the same graph through it.
package container

import (
	"context"
	"sync"

	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/config"
	"github.com/zfogg/curlmap/backend/internal/directory"
	"github.com/zfogg/curlmap/backend/internal/enrichment"
	"github.com/zfogg/curlmap/backend/internal/google"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/mentions"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"github.com/zfogg/curlmap/backend/internal/spamguard"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds the application dependencies
type Container struct {
	db    *gorm.DB
	store cache.Store

	salons    repository.DirectoryRepository
	geocoder  *google.GeocodingClient
	pipeline  *enrichment.Pipeline
	directory *directory.Service
	guard     *spamguard.Guard
	mentions  *mentions.Detector
	refresher *enrichment.Refresher

	cleanupFuncs []func(context.Context) error
	mu           sync.Mutex
}

// Build assembles every service from cfg on top of db and store. A nil store
// is resolved from the Redis settings.
func Build(cfg *config.Config, db *gorm.DB, store cache.Store) (*Container, error) {
	c := &Container{db: db, store: store}
	if c.store == nil {
		c.store = cache.NewStore(cfg.Redis)
	}
	c.OnCleanup(func(context.Context) error { return c.store.Close() })

	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.salons = repository.NewDirectoryRepository(db)

	c.geocoder = google.NewGeocodingClient(google.Config{
		APIKey:            cfg.Google.MapsAPIKey,
		BaseURL:           cfg.Google.BaseURL,
		RequestsPerSecond: cfg.Google.RequestsPerSec,
	})
	places := google.NewPlacesClient(google.Config{
		APIKey:            cfg.Google.PlacesAPIKey,
		BaseURL:           cfg.Google.BaseURL,
		RequestsPerSecond: cfg.Google.RequestsPerSec,
	})
	if cfg.Google.MapsAPIKey == "" || cfg.Google.PlacesAPIKey == "" {
		logger.Log.Warn("Google API keys not fully configured, enrichment will fall back to defaults")
	}

	c.pipeline = enrichment.NewPipeline(c.geocoder, places, c.salons, c.store, cfg.Enrichment.SyncInterval())
	c.directory = directory.NewService(c.salons, c.pipeline, c.store, cfg.Cache.TTL())
	c.guard = spamguard.NewGuard(c.store, spamguard.OptionsFromConfig(cfg.RateLimit))
	c.mentions = mentions.NewDetector(c.store, c.salons, mentions.DefaultRosterTTL)

	if cfg.Enrichment.RefreshInterval > 0 {
		c.refresher = enrichment.NewRefresher(c.pipeline, c.salons, c.directory, cfg.Enrichment.RefreshInterval)
	}

	logger.Log.Info("Services initialized",
		zap.Bool("refresher", c.refresher != nil),
		zap.Duration("cache_ttl", cfg.Cache.TTL()),
	)
	return c, nil
}

// DB returns the database connection
func (c *Container) DB() *gorm.DB { return c.db }

// Store returns the shared cache store
func (c *Container) Store() cache.Store { return c.store }

// Salons returns the directory repository
func (c *Container) Salons() repository.DirectoryRepository { return c.salons }

// Geocoder returns the Google geocoding client
func (c *Container) Geocoder() *google.GeocodingClient { return c.geocoder }

// Pipeline returns the enrichment pipeline
func (c *Container) Pipeline() *enrichment.Pipeline { return c.pipeline }

// Directory returns the cached directory service
func (c *Container) Directory() *directory.Service { return c.directory }

// Guard returns the forum spam guard
func (c *Container) Guard() *spamguard.Guard { return c.guard }

// Mentions returns the stylist mention detector
func (c *Container) Mentions() *mentions.Detector { return c.mentions }

// Refresher returns the background enrichment refresher, or nil when disabled
func (c *Container) Refresher() *enrichment.Refresher { return c.refresher }

// OnCleanup registers a cleanup function to be called during shutdown.
// Cleanup functions are called in LIFO order.
func (c *Container) OnCleanup(fn func(context.Context) error) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
	return c
}

// Cleanup runs the registered cleanup functions in reverse order. Failures are
// logged and do not stop the remaining functions.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](ctx); err != nil {
			logger.Log.Error("Cleanup function failed", zap.Int("index", i), zap.Error(err))
		}
	}
	c.cleanupFuncs = nil
	return nil
}

// Validate checks that the required infrastructure is present
func (c *Container) Validate() error {
	var missing []string
	if c.db == nil {
		missing = append(missing, "database (DB)")
	}
	if c.store == nil {
		missing = append(missing, "cache store")
	}
	if len(missing) > 0 {
		return NewInitializationError("Missing required dependencies", missing)
	}
	return nil
}
