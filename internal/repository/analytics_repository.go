package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/zfogg/curlmap/backend/internal/models"
	"gorm.io/gorm"
)

// MaxRecentMentionTopics caps the topics listed per stylist in analytics
const MaxRecentMentionTopics = 5

// AnalyticsRepository aggregates forum activity for reporting
type AnalyticsRepository interface {
	MentionAnalytics(ctx context.Context) ([]models.MentionStats, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// MentionAnalytics counts topic mentions per stylist, most mentioned first
func (r *analyticsRepository) MentionAnalytics(ctx context.Context) ([]models.MentionStats, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).
		Select("id", "title", "created_at", "mentioned_stylist_ids").
		Where("mentioned_stylist_ids <> ?", "{}").
		Order("created_at DESC").
		Order("id DESC").
		Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("load mentioned topics: %w", err)
	}

	var stylists []models.StylistName
	err = r.db.WithContext(ctx).
		Model(&models.Stylist{}).
		Select("id", "name").
		Find(&stylists).Error
	if err != nil {
		return nil, fmt.Errorf("load stylist names: %w", err)
	}
	names := make(map[string]string, len(stylists))
	for _, s := range stylists {
		names[s.ID] = s.Name
	}

	byStylist := make(map[string]*models.MentionStats)
	for _, t := range topics {
		for _, id := range t.MentionedStylistIDs {
			stats, ok := byStylist[id]
			if !ok {
				name, found := names[id]
				if !found {
					name = "Unknown"
				}
				stats = &models.MentionStats{
					StylistID:    id,
					StylistName:  name,
					RecentTopics: []models.TopicSummary{},
				}
				byStylist[id] = stats
			}
			stats.MentionCount++
			if len(stats.RecentTopics) < MaxRecentMentionTopics {
				stats.RecentTopics = append(stats.RecentTopics, models.TopicSummary{
					ID:        t.ID,
					Title:     t.Title,
					CreatedAt: t.CreatedAt,
				})
			}
		}
	}

	results := make([]models.MentionStats, 0, len(byStylist))
	for _, stats := range byStylist {
		results = append(results, *stats)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].MentionCount != results[j].MentionCount {
			return results[i].MentionCount > results[j].MentionCount
		}
		return results[i].StylistID < results[j].StylistID
	})
	return results, nil
}
