package enrichment

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/models"
	"go.uber.org/zap"
)

// SalonLister loads every salon for a refresh pass
type SalonLister interface {
	ListSalons(ctx context.Context) ([]models.Salon, error)
}

// CacheClearer drops cached data derived from salon rows
type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// Refresher periodically re-runs enrichment so stale place data is refreshed
// without waiting for a directory cache miss.
type Refresher struct {
	pipeline *Pipeline
	salons   SalonLister
	cache    CacheClearer
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	started  atomic.Bool
	done     chan struct{}
}

// NewRefresher creates a refresher that runs every interval
func NewRefresher(pipeline *Pipeline, salons SalonLister, cache CacheClearer, interval time.Duration) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		pipeline: pipeline,
		salons:   salons,
		cache:    cache,
		ctx:      ctx,
		cancel:   cancel,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the periodic refresh
func (r *Refresher) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	logger.Log.Info("Starting enrichment refresher", zap.Duration("interval", r.interval))
	go r.run()
}

// Stop halts the refresher and waits for an in-flight pass to finish
func (r *Refresher) Stop() {
	logger.Log.Info("Stopping enrichment refresher")
	r.cancel()
	if r.started.Load() {
		<-r.done
	}
}

func (r *Refresher) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(r.ctx)
		case <-r.ctx.Done():
			return
		}
	}
}

// RunOnce performs a single refresh pass and returns the number of salons changed
func (r *Refresher) RunOnce(ctx context.Context) int {
	start := time.Now()

	salons, err := r.salons.ListSalons(ctx)
	if err != nil {
		logger.Log.Error("Enrichment refresh could not load salons", zap.Error(err))
		return 0
	}

	changed := r.pipeline.Refresh(ctx, salons)
	if changed > 0 && r.cache != nil {
		if err := r.cache.ClearCache(ctx); err != nil {
			logger.WarnWithFields("Failed to clear directory cache after refresh", err)
		}
	}

	logger.Log.Info("Enrichment refresh completed",
		zap.Int("salons", len(salons)),
		zap.Int("changed", changed),
		logger.WithDuration(time.Since(start)),
	)
	return changed
}
