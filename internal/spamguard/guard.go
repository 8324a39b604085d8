// Package spamguard screens anonymous forum posts before they are stored.
// Length and keyword checks run in process. The per-client post window and
// the duplicate fingerprints live in the shared cache store so every
// instance sees the same counts.
package spamguard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/config"
	"github.com/zfogg/curlmap/backend/internal/metrics"
)

const (
	rateKeyPrefix = "spam:rate:"
	dupKeyPrefix  = "spam:dup:"
)

// Rejection reasons that do not depend on configuration
const (
	ReasonTooShort = "Content too short (minimum 20 characters)"
	ReasonTooLong  = "Content too long (maximum 5000 characters)"
	ReasonKeywords = "Content contains spam keywords"
)

var spamKeywords = []string{
	"viagra", "cialis", "casino", "poker", "lottery",
	"click here", "buy now", "limited time", "act now",
	"free money", "make money fast", "work from home",
	"weight loss", "miracle cure", "enlargement",
}

// Options tunes the guard
type Options struct {
	MinLength       int
	MaxLength       int
	PostsPerWindow  int
	RateWindow      time.Duration
	DuplicateWindow time.Duration
}

// DefaultOptions returns the stock limits: 20-5000 characters, five posts an
// hour per client and a 24 hour duplicate window.
func DefaultOptions() Options {
	return Options{
		MinLength:       20,
		MaxLength:       5000,
		PostsPerWindow:  5,
		RateWindow:      time.Hour,
		DuplicateWindow: 24 * time.Hour,
	}
}

// OptionsFromConfig applies the configured rate settings on top of the defaults
func OptionsFromConfig(cfg config.RateLimitConfig) Options {
	opts := DefaultOptions()
	if cfg.PostsPerHour > 0 {
		opts.PostsPerWindow = cfg.PostsPerHour
	}
	if w := cfg.DuplicateWindow(); w > 0 {
		opts.DuplicateWindow = w
	}
	return opts
}

// Decision is the outcome of Evaluate. Reason is set when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  string
}

// RateLimitInfo describes a client's current post window
type RateLimitInfo struct {
	Posts     int           `json:"posts"`
	Remaining int           `json:"remaining"`
	ResetIn   time.Duration `json:"resetIn"`
}

// Guard evaluates posts against length, keyword, rate and duplicate checks
type Guard struct {
	store cache.Store
	opts  Options
}

// NewGuard creates a guard backed by store
func NewGuard(store cache.Store, opts Options) *Guard {
	return &Guard{store: store, opts: opts}
}

// Options returns the limits the guard was built with
func (g *Guard) Options() Options {
	return g.opts
}

// Evaluate runs the checks in order and stops at the first rejection. A
// rejection is reported through Decision; a non-nil error means the cache
// store failed and the caller decides whether to let the post through.
func (g *Guard) Evaluate(ctx context.Context, content, clientKey string, title *string) (Decision, error) {
	combined := content
	if title != nil && *title != "" {
		combined = *title + " " + content
	}

	n := utf8.RuneCountInString(combined)
	if n < g.opts.MinLength {
		return g.reject("length", ReasonTooShort), nil
	}
	if n > g.opts.MaxLength {
		return g.reject("length", ReasonTooLong), nil
	}

	if containsSpamKeyword(combined) {
		return g.reject("keyword", ReasonKeywords), nil
	}

	// The increment is the check: concurrent posts from one client each see a
	// distinct count.
	posts, err := g.store.IncrWindow(ctx, rateKeyPrefix+clientKey, g.opts.RateWindow)
	if err != nil {
		return Decision{}, fmt.Errorf("increment post count: %w", err)
	}
	if posts > int64(g.opts.PostsPerWindow) {
		return g.reject("rate", g.rateReason()), nil
	}

	recorded, err := g.store.SetNX(ctx, dupKeyPrefix+Fingerprint(combined), []byte("1"), g.opts.DuplicateWindow)
	if err != nil {
		return Decision{}, fmt.Errorf("record fingerprint: %w", err)
	}
	if !recorded {
		return g.reject("duplicate", g.duplicateReason()), nil
	}

	return Decision{Allowed: true}, nil
}

// RateLimitInfo reports how many posts clientKey has made in the current window
func (g *Guard) RateLimitInfo(ctx context.Context, clientKey string) (RateLimitInfo, error) {
	rateKey := rateKeyPrefix + clientKey
	posts, err := g.store.GetInt(ctx, rateKey)
	if err != nil {
		return RateLimitInfo{}, fmt.Errorf("read post count: %w", err)
	}

	// Rejected attempts past the limit still increment the counter.
	if posts > int64(g.opts.PostsPerWindow) {
		posts = int64(g.opts.PostsPerWindow)
	}
	info := RateLimitInfo{
		Posts:     int(posts),
		Remaining: g.opts.PostsPerWindow - int(posts),
	}
	if posts > 0 {
		ttl, err := g.store.TTL(ctx, rateKey)
		if err != nil {
			return RateLimitInfo{}, fmt.Errorf("read window ttl: %w", err)
		}
		if ttl > 0 {
			info.ResetIn = ttl
		}
	}
	return info, nil
}

// ClearRateLimit resets the post window for clientKey
func (g *Guard) ClearRateLimit(ctx context.Context, clientKey string) error {
	return g.store.Del(ctx, rateKeyPrefix+clientKey)
}

// Fingerprint is the duplicate key for a post: sha256 of the trimmed,
// lowercased text.
func Fingerprint(combined string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(combined))))
	return hex.EncodeToString(sum[:])
}

func containsSpamKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (g *Guard) rateReason() string {
	return fmt.Sprintf("Rate limit exceeded (%d posts per hour)", g.opts.PostsPerWindow)
}

func (g *Guard) duplicateReason() string {
	return fmt.Sprintf("Duplicate content detected (same content posted in last %d hours)",
		int(g.opts.DuplicateWindow/time.Hour))
}

func (g *Guard) reject(check, reason string) Decision {
	metrics.RecordSpamRejection(check)
	return Decision{Allowed: false, Reason: reason}
}
