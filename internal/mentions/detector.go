// Package mentions finds stylists named in forum posts.
package mentions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/metrics"
	"github.com/zfogg/curlmap/backend/internal/models"
	"go.uber.org/zap"
)

const (
	rosterKey = "mentions:roster"

	// DefaultRosterTTL is how long the stylist roster stays cached
	DefaultRosterTTL = time.Hour

	// MatchThreshold is the minimum score counted as a mention
	MatchThreshold = 0.7
)

// RosterSource loads the stylist id/name pairs to match against
type RosterSource interface {
	ListStylistNames(ctx context.Context) ([]models.StylistName, error)
}

// Detector matches post text against the cached stylist roster
type Detector struct {
	store  cache.Store
	source RosterSource
	ttl    time.Duration
}

// NewDetector creates a detector. A non-positive ttl uses DefaultRosterTTL.
func NewDetector(store cache.Store, source RosterSource, ttl time.Duration) *Detector {
	if ttl <= 0 {
		ttl = DefaultRosterTTL
	}
	return &Detector{store: store, source: source, ttl: ttl}
}

// Detect returns the ids of stylists mentioned in the title and content, in
// roster order and without duplicates.
func (d *Detector) Detect(ctx context.Context, content string, title *string) ([]string, error) {
	combined := content
	if title != nil && *title != "" {
		combined = *title + " " + content
	}
	text := Normalize(combined)

	roster, err := d.roster(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, s := range roster {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		if Score(text, s.Name) >= MatchThreshold {
			seen[s.ID] = struct{}{}
			ids = append(ids, s.ID)
		}
	}

	if len(ids) > 0 {
		metrics.Get().App.MentionsDetected.Add(float64(len(ids)))
	}
	return ids, nil
}

// ClearCache drops the cached roster so the next Detect reloads it
func (d *Detector) ClearCache(ctx context.Context) error {
	return d.store.Del(ctx, rosterKey)
}

func (d *Detector) roster(ctx context.Context) ([]models.StylistName, error) {
	raw, err := d.store.Get(ctx, rosterKey)
	if err == nil {
		var roster []models.StylistName
		if err := json.Unmarshal(raw, &roster); err == nil {
			return roster, nil
		}
		logger.Log.Warn("Discarding unreadable mention roster", zap.Error(err))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("Mention roster cache read failed", zap.Error(err))
	}

	roster, err := d.source.ListStylistNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stylist roster: %w", err)
	}

	if raw, err := json.Marshal(roster); err == nil {
		if err := d.store.Set(ctx, rosterKey, raw, d.ttl); err != nil {
			logger.Log.Warn("Mention roster cache write failed", zap.Error(err))
		}
	}
	return roster, nil
}

// Normalize lowercases s, collapses whitespace runs and trims
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Score rates how well name is mentioned in text: 1 for an exact match, 0.8
// when one contains the other, 0.7 when every word of the name appears
// somewhere in the text. Empty input scores 0.
func Score(text, name string) float64 {
	name = Normalize(name)
	text = Normalize(text)
	if name == "" || text == "" {
		return 0
	}

	switch {
	case text == name:
		return 1.0
	case strings.Contains(text, name) || strings.Contains(name, text):
		return 0.8
	}

	for _, word := range strings.Split(name, " ") {
		if !strings.Contains(text, word) {
			return 0
		}
	}
	return 0.7
}
