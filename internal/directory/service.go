// Package directory serves the salon directory through a cache-aside layer.
// Concurrent misses share one rebuild.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/enrichment"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/metrics"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix = "directory:"
	cacheKey  = keyPrefix + "directory"

	// DefaultTTL is how long a built directory is served from cache
	DefaultTTL = time.Hour
)

// Source loads the rows the directory is built from
type Source interface {
	ListSalons(ctx context.Context) ([]models.Salon, error)
	ListCertifications(ctx context.Context) ([]models.Certification, error)
}

// Enricher fills in missing coordinates and place data for a salon
type Enricher interface {
	Enrich(ctx context.Context, salon *models.Salon) enrichment.Result
}

// Stats describes the directory cache
type Stats struct {
	Keys   int   `json:"keys"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	TTL    int   `json:"ttl"`
}

// Service returns the directory aggregate, building it on a cache miss
type Service struct {
	source   Source
	enricher Enricher
	store    cache.Store
	ttl      time.Duration
	group    singleflight.Group
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewService creates a directory service. A non-positive ttl uses DefaultTTL.
func NewService(source Source, enricher Enricher, store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		source:   source,
		enricher: enricher,
		store:    store,
		ttl:      ttl,
	}
}

// GetDirectory returns the aggregate and whether it came from cache
func (s *Service) GetDirectory(ctx context.Context) (*Aggregate, bool, error) {
	start := time.Now()

	raw, err := s.store.Get(ctx, cacheKey)
	if err == nil {
		var agg Aggregate
		if err := json.Unmarshal(raw, &agg); err == nil {
			s.hits.Add(1)
			metrics.Get().CacheHitsTotal.WithLabelValues("directory").Inc()
			metrics.Get().CacheOperationDuration.WithLabelValues("get", "directory").Observe(time.Since(start).Seconds())
			return &agg, true, nil
		}
		logger.Log.Warn("Discarding unreadable directory cache entry")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("Directory cache read failed, rebuilding", zap.Error(err))
	}

	s.misses.Add(1)
	metrics.Get().CacheMissesTotal.WithLabelValues("directory").Inc()

	// The rebuild is shared by every waiting caller, so it must not die with
	// whichever request happened to start it.
	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		return s.rebuild(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Aggregate), false, nil
}

func (s *Service) rebuild(ctx context.Context) (*Aggregate, error) {
	ctx, span := telemetry.TraceDirectoryRebuild(ctx)
	defer span.End()
	start := time.Now()

	salons, err := s.source.ListSalons(ctx)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, fmt.Errorf("load salons: %w", err)
	}
	certs, err := s.source.ListCertifications(ctx)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, fmt.Errorf("load certifications: %w", err)
	}

	agg := &Aggregate{
		Salons:         make([]SalonView, 0, len(salons)),
		Certifications: certs,
	}
	for i := range salons {
		salon := &salons[i]
		if len(salon.Stylists) == 0 {
			continue
		}
		if s.enricher != nil {
			s.enricher.Enrich(ctx, salon)
		}
		if !salon.HasCoordinates() {
			continue
		}
		agg.Salons = append(agg.Salons, salonView(salon))
	}

	raw, err := json.Marshal(agg)
	if err != nil {
		return nil, fmt.Errorf("encode directory: %w", err)
	}
	if err := s.store.Set(ctx, cacheKey, raw, s.ttl); err != nil {
		logger.Log.Warn("Directory cache write failed", zap.Error(err))
	}

	elapsed := time.Since(start)
	metrics.Get().App.DirectoryRebuildDuration.Observe(elapsed.Seconds())
	metrics.Get().App.DirectorySalons.Set(float64(len(agg.Salons)))
	logger.Log.Info("Directory rebuilt",
		zap.Int("salons", len(agg.Salons)),
		zap.Int("certifications", len(certs)),
		logger.WithDuration(elapsed),
	)
	return agg, nil
}

// ClearCache drops every cached directory entry
func (s *Service) ClearCache(ctx context.Context) error {
	keys, err := s.store.Keys(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("list directory keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete directory keys: %w", err)
	}
	metrics.Get().CacheEvictionsTotal.WithLabelValues("directory").Add(float64(len(keys)))
	logger.Log.Info("Directory cache cleared", zap.Int("keys", len(keys)))
	return nil
}

// Stats reports the live key count and the process hit/miss counters
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	keys, err := s.store.Keys(ctx, keyPrefix)
	if err != nil {
		return Stats{}, fmt.Errorf("list directory keys: %w", err)
	}
	return Stats{
		Keys:   len(keys),
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		TTL:    int(s.ttl / time.Second),
	}, nil
}
