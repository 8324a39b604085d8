package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/testutil"
)

func TestMentionAnalytics(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAnalyticsRepository(db)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	testutil.SeedSalon(t, db, "salon-a", "Curl House",
		models.Stylist{ID: "sty-1", Name: "Jane Doe"},
		models.Stylist{ID: "sty-2", Name: "Ana Ruiz"},
	)

	insert := func(title string, offset time.Duration, ids ...string) {
		topic := models.Topic{
			Title:               title,
			Content:             "content",
			MentionedStylistIDs: ids,
			CreatedAt:           base.Add(offset),
			UpdatedAt:           base.Add(offset),
		}
		require.NoError(t, db.Create(&topic).Error)
	}

	for i := 0; i < 6; i++ {
		insert(fmt.Sprintf("jane %d", i), time.Duration(i)*time.Hour, "sty-1")
	}
	insert("both", 10*time.Hour, "sty-1", "sty-2")
	insert("ghost", 11*time.Hour, "sty-gone")
	insert("nobody", 12*time.Hour)

	stats, err := repo.MentionAnalytics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "sty-1", stats[0].StylistID)
	assert.Equal(t, "Jane Doe", stats[0].StylistName)
	assert.Equal(t, 7, stats[0].MentionCount)
	require.Len(t, stats[0].RecentTopics, MaxRecentMentionTopics)
	assert.Equal(t, "both", stats[0].RecentTopics[0].Title)
	assert.Equal(t, "jane 5", stats[0].RecentTopics[1].Title)

	assert.Equal(t, "sty-2", stats[1].StylistID)
	assert.Equal(t, 1, stats[1].MentionCount)
	assert.Equal(t, "sty-gone", stats[2].StylistID)
	assert.Equal(t, "Unknown", stats[2].StylistName)
}

func TestMentionAnalyticsEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	stats, err := NewAnalyticsRepository(db).MentionAnalytics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}
