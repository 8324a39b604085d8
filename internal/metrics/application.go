package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ApplicationMetrics tracks forum and directory activity
type ApplicationMetrics struct {
	// Forum
	ForumWritesTotal    *prometheus.CounterVec
	SpamRejectionsTotal *prometheus.CounterVec
	MentionsDetected    prometheus.Counter

	// Directory
	DirectoryRebuildDuration prometheus.Histogram
	DirectorySalons          prometheus.Gauge

	// Enrichment
	EnrichmentCallsTotal *prometheus.CounterVec
}

func initializeApplicationMetrics() *ApplicationMetrics {
	return &ApplicationMetrics{
		ForumWritesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_writes_total",
				Help: "Forum writes by kind (topic, reply, flag, upvote)",
			},
			[]string{"kind"},
		),
		SpamRejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_spam_rejections_total",
				Help: "Posts rejected by the spam guard, by check",
			},
			[]string{"check"},
		),
		MentionsDetected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "forum_mentions_detected_total",
				Help: "Stylist mentions detected in new topics",
			},
		),
		DirectoryRebuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "directory_rebuild_duration_seconds",
				Help:    "Time to rebuild the directory aggregate",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		DirectorySalons: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_salons",
				Help: "Salons included in the last directory rebuild",
			},
		),
		EnrichmentCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enrichment_calls_total",
				Help: "External enrichment calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
	}
}

// RecordForumWrite counts an accepted forum write
func RecordForumWrite(kind string) {
	Get().App.ForumWritesTotal.WithLabelValues(kind).Inc()
}

// RecordSpamRejection counts a guard rejection by the check that fired
func RecordSpamRejection(check string) {
	Get().App.SpamRejectionsTotal.WithLabelValues(check).Inc()
}

// RecordEnrichmentCall counts an external lookup
func RecordEnrichmentCall(provider, outcome string) {
	Get().App.EnrichmentCallsTotal.WithLabelValues(provider, outcome).Inc()
}
