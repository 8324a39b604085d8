// Package enrichment fills in salon coordinates and Google reputation data
// the first time a salon is read, and refreshes the reputation data once it
// goes stale.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/google"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/telemetry"
	"go.uber.org/zap"
)

const (
	// DefaultSyncInterval is how old place data may get before it is refetched
	DefaultSyncInterval = 7 * 24 * time.Hour

	// GeocodeCacheTTL bounds how long a geocoded address is reused
	GeocodeCacheTTL = 30 * 24 * time.Hour

	geocodeKeyPrefix = "geocode:"
)

// FallbackLocation is used when an address cannot be geocoded: Rochester, NY
// city centre. It is shown on the map but never written to the database.
var FallbackLocation = google.Location{Lat: 43.1566, Lng: -77.6088}

// Geocoder resolves an address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (google.Location, error)
}

// PlacesClient finds a business listing and its reputation data
type PlacesClient interface {
	FindPlaceID(ctx context.Context, name, fullAddress string) (string, error)
	Details(ctx context.Context, placeID string) (models.PlaceDetails, error)
}

// SalonWriter persists enrichment results
type SalonWriter interface {
	UpdateCoordinates(ctx context.Context, salonID string, lat, lng float64) error
	SavePlaceID(ctx context.Context, salonID, placeID string) error
	MarkPlaceNotFound(ctx context.Context, salonID string, at time.Time) error
	SavePlaceDetails(ctx context.Context, salonID string, details models.PlaceDetails, at time.Time) error
}

// Result reports what Enrich did to one salon
type Result struct {
	// Included is true when the salon has coordinates to show, real or fallback
	Included bool
	// Changed is true when anything was written back to the database
	Changed bool
}

// Pipeline runs geocoding and places sync for salons
type Pipeline struct {
	geocoder     Geocoder
	places       PlacesClient
	salons       SalonWriter
	store        cache.Store
	syncInterval time.Duration
	now          func() time.Time
}

// NewPipeline creates a pipeline. A non-positive syncInterval uses
// DefaultSyncInterval.
func NewPipeline(geocoder Geocoder, places PlacesClient, salons SalonWriter, store cache.Store, syncInterval time.Duration) *Pipeline {
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}
	return &Pipeline{
		geocoder:     geocoder,
		places:       places,
		salons:       salons,
		store:        store,
		syncInterval: syncInterval,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// NeedsSync reports whether the salon's place data should be fetched
func (p *Pipeline) NeedsSync(salon *models.Salon, now time.Time) bool {
	switch salon.PlaceID() {
	case "":
		return true
	case models.PlaceNotFound:
		return false
	}
	if salon.LastGoogleSync == nil {
		return true
	}
	return now.Sub(*salon.LastGoogleSync) > p.syncInterval
}

// Enrich geocodes the salon when it lacks coordinates and syncs its place
// data when stale. The salon is updated in place. Failures are logged and
// never returned; one bad salon must not block the directory.
func (p *Pipeline) Enrich(ctx context.Context, salon *models.Salon) Result {
	var res Result

	if !salon.HasCoordinates() {
		if p.geocode(ctx, salon) {
			res.Changed = true
		}
	}

	if p.NeedsSync(salon, p.now()) {
		if p.syncPlace(ctx, salon) {
			res.Changed = true
		}
	}

	res.Included = salon.HasCoordinates()
	return res
}

// Refresh enriches every salon and returns how many were changed
func (p *Pipeline) Refresh(ctx context.Context, salons []models.Salon) int {
	changed := 0
	for i := range salons {
		if ctx.Err() != nil {
			break
		}
		if p.Enrich(ctx, &salons[i]).Changed {
			changed++
		}
	}
	return changed
}

func (p *Pipeline) geocode(ctx context.Context, salon *models.Salon) bool {
	ctx, span := telemetry.TraceEnrichment(ctx, salon.ID, "geocode")
	defer span.End()

	loc, err := p.lookupLocation(ctx, salon.FullAddress)
	if err != nil {
		logger.Log.Warn("Geocoding failed, using fallback location",
			logger.WithSalonID(salon.ID),
			logger.WithSalonName(salon.Name),
			zap.Error(err),
		)
		telemetry.RecordSpanError(span, err)
		lat, lng := FallbackLocation.Lat, FallbackLocation.Lng
		salon.Lat, salon.Lng = &lat, &lng
		return false
	}

	salon.Lat, salon.Lng = &loc.Lat, &loc.Lng
	if err := p.salons.UpdateCoordinates(ctx, salon.ID, loc.Lat, loc.Lng); err != nil {
		logger.Log.Error("Failed to store coordinates",
			logger.WithSalonID(salon.ID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// lookupLocation consults the geocode cache before calling the geocoder
func (p *Pipeline) lookupLocation(ctx context.Context, address string) (google.Location, error) {
	key := geocodeKeyPrefix + address

	raw, err := p.store.Get(ctx, key)
	if err == nil {
		var loc google.Location
		if json.Unmarshal(raw, &loc) == nil {
			return loc, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("Geocode cache read failed", zap.Error(err))
	}

	loc, err := p.geocoder.Geocode(ctx, address)
	if err != nil {
		return google.Location{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	if raw, err := json.Marshal(loc); err == nil {
		if err := p.store.Set(ctx, key, raw, GeocodeCacheTTL); err != nil {
			logger.Log.Warn("Geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}

func (p *Pipeline) syncPlace(ctx context.Context, salon *models.Salon) bool {
	ctx, span := telemetry.TraceEnrichment(ctx, salon.ID, "places")
	defer span.End()

	changed := false
	placeID := salon.PlaceID()

	if placeID == "" {
		id, err := p.places.FindPlaceID(ctx, salon.Name, salon.FullAddress)
		switch {
		case errors.Is(err, google.ErrPlaceNotFound):
			now := p.now()
			logger.Log.Warn("No place found, marking salon",
				logger.WithSalonID(salon.ID),
				logger.WithSalonName(salon.Name),
			)
			if err := p.salons.MarkPlaceNotFound(ctx, salon.ID, now); err != nil {
				logger.Log.Error("Failed to mark place not found", logger.WithSalonID(salon.ID), zap.Error(err))
				return false
			}
			notFound := models.PlaceNotFound
			salon.GooglePlaceID = &notFound
			salon.LastGoogleSync = &now
			return true
		case err != nil:
			logger.Log.Warn("Place search failed",
				logger.WithSalonID(salon.ID),
				logger.WithSalonName(salon.Name),
				zap.Error(err),
			)
			telemetry.RecordSpanError(span, err)
			return false
		}

		if err := p.salons.SavePlaceID(ctx, salon.ID, id); err != nil {
			logger.Log.Error("Failed to store place id", logger.WithSalonID(salon.ID), zap.Error(err))
			return false
		}
		salon.GooglePlaceID = &id
		placeID = id
		changed = true
	}

	details, err := p.places.Details(ctx, placeID)
	if err != nil {
		logger.Log.Warn("Place details failed",
			logger.WithSalonID(salon.ID),
			zap.String("place_id", placeID),
			zap.Error(err),
		)
		telemetry.RecordSpanError(span, err)
		return changed
	}

	now := p.now()
	if err := p.salons.SavePlaceDetails(ctx, salon.ID, details, now); err != nil {
		logger.Log.Error("Failed to store place details", logger.WithSalonID(salon.ID), zap.Error(err))
		return changed
	}

	if details.Rating != nil {
		salon.GoogleRating = details.Rating
	}
	if details.ReviewCount != nil {
		salon.GoogleReviewCount = details.ReviewCount
	}
	if details.ReviewsURL != nil {
		salon.GoogleReviewsURL = details.ReviewsURL
	}
	salon.LastGoogleSync = &now
	return true
}
