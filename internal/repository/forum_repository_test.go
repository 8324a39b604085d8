package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/testutil"
	"gorm.io/gorm"
)

func newForumRepo(t *testing.T) (ForumRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewForumRepository(db), db
}

func createTopic(t *testing.T, repo ForumRepository, title string, tags ...string) *models.Topic {
	t.Helper()
	topic := &models.Topic{
		Title:   title,
		Content: "Looking for advice from the community.",
		Tags:    tags,
	}
	require.NoError(t, repo.CreateTopic(context.Background(), topic))
	require.NotZero(t, topic.ID)
	return topic
}

func TestCreateTopicZeroesCounters(t *testing.T) {
	repo, _ := newForumRepo(t)
	ctx := context.Background()

	topic := &models.Topic{
		Title:        "Best curly salon downtown?",
		Content:      "Moved here recently and need a recommendation.",
		UpvotesCount: 10,
		RepliesCount: 3,
		FlagCount:    4,
	}
	require.NoError(t, repo.CreateTopic(ctx, topic))

	got, err := repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UpvotesCount)
	assert.Equal(t, 0, got.RepliesCount)
	assert.Equal(t, 0, got.FlagCount)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.Replies)
}

func TestCreateTopicNil(t *testing.T) {
	repo, _ := newForumRepo(t)
	assert.ErrorIs(t, repo.CreateTopic(context.Background(), nil), ErrInvalidInput)
}

func TestGetTopicNotFound(t *testing.T) {
	repo, _ := newForumRepo(t)
	_, err := repo.GetTopic(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestCreateReplyBuildsTree(t *testing.T) {
	repo, db := newForumRepo(t)
	ctx := context.Background()
	topic := createTopic(t, repo, "Devacut or Rezo?")

	a := &models.Reply{TopicID: topic.ID, Content: "Reply A"}
	require.NoError(t, repo.CreateReply(ctx, a))

	b := &models.Reply{TopicID: topic.ID, ParentReplyID: &a.ID, Content: "Reply B"}
	require.NoError(t, repo.CreateReply(ctx, b))

	c := &models.Reply{TopicID: topic.ID, Content: "Reply C"}
	require.NoError(t, repo.CreateReply(ctx, c))

	got, err := repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RepliesCount)

	require.Len(t, got.Replies, 2)
	assert.Equal(t, a.ID, got.Replies[0].ID)
	assert.Equal(t, c.ID, got.Replies[1].ID)
	require.Len(t, got.Replies[0].Children, 1)
	assert.Equal(t, b.ID, got.Replies[0].Children[0].ID)
	assert.Empty(t, got.Replies[1].Children)

	var stored models.Topic
	require.NoError(t, db.First(&stored, topic.ID).Error)
	assert.False(t, stored.UpdatedAt.Before(topic.UpdatedAt))
}

func TestCreateReplyRejectsThirdLevel(t *testing.T) {
	repo, _ := newForumRepo(t)
	ctx := context.Background()
	topic := createTopic(t, repo, "Deep thread")

	a := &models.Reply{TopicID: topic.ID, Content: "first level"}
	require.NoError(t, repo.CreateReply(ctx, a))
	b := &models.Reply{TopicID: topic.ID, ParentReplyID: &a.ID, Content: "second level"}
	require.NoError(t, repo.CreateReply(ctx, b))

	c := &models.Reply{TopicID: topic.ID, ParentReplyID: &b.ID, Content: "third level"}
	err := repo.CreateReply(ctx, c)
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)
	assert.Equal(t, "Maximum nesting depth of 2 levels exceeded", err.Error())

	got, err := repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RepliesCount)
}

func TestCreateReplyMissingTargets(t *testing.T) {
	repo, _ := newForumRepo(t)
	ctx := context.Background()
	topic := createTopic(t, repo, "Parent checks")
	other := createTopic(t, repo, "Other topic")

	err := repo.CreateReply(ctx, &models.Reply{TopicID: 12345, Content: "orphan"})
	assert.ErrorIs(t, err, ErrTopicNotFound)

	missing := uint(777)
	err = repo.CreateReply(ctx, &models.Reply{TopicID: topic.ID, ParentReplyID: &missing, Content: "nope"})
	assert.ErrorIs(t, err, ErrReplyNotFound)

	foreign := &models.Reply{TopicID: other.ID, Content: "in other topic"}
	require.NoError(t, repo.CreateReply(ctx, foreign))
	err = repo.CreateReply(ctx, &models.Reply{TopicID: topic.ID, ParentReplyID: &foreign.ID, Content: "cross"})
	assert.ErrorIs(t, err, ErrReplyNotFound)

	got, err := repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RepliesCount)
}

func TestFlagThresholdHidesContent(t *testing.T) {
	repo, _ := newForumRepo(t)
	ctx := context.Background()
	topic := createTopic(t, repo, "Flag me")
	reply := &models.Reply{TopicID: topic.ID, Content: "questionable"}
	require.NoError(t, repo.CreateReply(ctx, reply))

	for i := 0; i < models.FlagThreshold-1; i++ {
		require.NoError(t, repo.FlagContent(ctx, models.ContentTopic, topic.ID))
		require.NoError(t, repo.FlagContent(ctx, models.ContentReply, reply.ID))
	}

	topics, err := repo.ListTopics(ctx, TopicFilter{})
	require.NoError(t, err)
	assert.Len(t, topics, 1)
	got, err := repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Len(t, got.Replies, 1)

	require.NoError(t, repo.FlagContent(ctx, models.ContentTopic, topic.ID))
	require.NoError(t, repo.FlagContent(ctx, models.ContentReply, reply.ID))

	topics, err = repo.ListTopics(ctx, TopicFilter{})
	require.NoError(t, err)
	assert.Empty(t, topics)

	// Direct lookups still work for flagged topics.
	got, err = repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlagThreshold, got.FlagCount)
	assert.Empty(t, got.Replies)
}

func TestFlagAndUpvoteNotFound(t *testing.T) {
	repo, _ := newForumRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.FlagContent(ctx, models.ContentTopic, 42), ErrTopicNotFound)
	assert.ErrorIs(t, repo.FlagContent(ctx, models.ContentReply, 42), ErrReplyNotFound)
	assert.ErrorIs(t, repo.FlagContent(ctx, models.ContentKind("post"), 1), ErrInvalidInput)
	assert.ErrorIs(t, repo.UpvoteTopic(ctx, 42), ErrTopicNotFound)
}

func TestUpvoteKeepsActivityTime(t *testing.T) {
	repo, db := newForumRepo(t)
	ctx := context.Background()
	topic := createTopic(t, repo, "Upvote me")

	var before models.Topic
	require.NoError(t, db.First(&before, topic.ID).Error)

	require.NoError(t, repo.UpvoteTopic(ctx, topic.ID))
	require.NoError(t, repo.UpvoteTopic(ctx, topic.ID))

	var after models.Topic
	require.NoError(t, db.First(&after, topic.ID).Error)
	assert.Equal(t, 2, after.UpvotesCount)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestListTopicsSorting(t *testing.T) {
	repo, db := newForumRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	insert := func(title string, created, updated time.Time, replies int) uint {
		topic := models.Topic{
			Title:     title,
			Content:   "content for " + title,
			CreatedAt: created,
			UpdatedAt: updated,
		}
		require.NoError(t, db.Create(&topic).Error)
		require.NoError(t, db.Model(&topic).UpdateColumn("replies_count", replies).Error)
		return topic.ID
	}

	oldest := insert("oldest", base, base.Add(3*time.Hour), 1)
	middle := insert("middle", base.Add(time.Hour), base.Add(time.Hour), 5)
	newest := insert("newest", base.Add(2*time.Hour), base.Add(2*time.Hour), 5)

	ids := func(sort TopicSort) []uint {
		topics, err := repo.ListTopics(ctx, TopicFilter{SortBy: sort})
		require.NoError(t, err)
		out := make([]uint, 0, len(topics))
		for _, tp := range topics {
			out = append(out, tp.ID)
		}
		return out
	}

	assert.Equal(t, []uint{oldest, newest, middle}, ids(SortRecent))
	assert.Equal(t, []uint{newest, middle, oldest}, ids(SortReplies))
	assert.Equal(t, []uint{newest, middle, oldest}, ids(SortNewest))
}

func TestListTopicsFilters(t *testing.T) {
	repo, _ := newForumRepo(t)
	ctx := context.Background()

	createTopic(t, repo, "Curly girl method tips", "tips", "products")
	createTopic(t, repo, "Salon review", "reviews")
	createTopic(t, repo, "Wash day routine", "routines")

	topics, err := repo.ListTopics(ctx, TopicFilter{Tags: []string{"reviews", "routines"}})
	require.NoError(t, err)
	assert.Len(t, topics, 2)

	topics, err = repo.ListTopics(ctx, TopicFilter{Tags: []string{"tip"}})
	require.NoError(t, err)
	assert.Empty(t, topics)

	topics, err = repo.ListTopics(ctx, TopicFilter{Search: "  CURLY  "})
	require.NoError(t, err)
	require.Len(t, topics, 1)

	topics, err = repo.ListTopics(ctx, TopicFilter{Search: "wash DAY"})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Wash day routine", topics[0].Title)

	topics, err = repo.ListTopics(ctx, TopicFilter{Limit: 1, Offset: 1, SortBy: SortNewest})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Salon review", topics[0].Title)
}

func TestTopicFilterNormalized(t *testing.T) {
	f := TopicFilter{Limit: 500, Offset: -3, Search: "  x "}.normalized()
	assert.Equal(t, MaxTopicLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, SortRecent, f.SortBy)
	assert.Equal(t, "x", f.Search)

	f = TopicFilter{}.normalized()
	assert.Equal(t, DefaultTopicLimit, f.Limit)
}

func TestParseTopicSort(t *testing.T) {
	assert.Equal(t, SortReplies, ParseTopicSort("replies"))
	assert.Equal(t, SortNewest, ParseTopicSort(" Newest "))
	assert.Equal(t, SortRecent, ParseTopicSort("recent"))
	assert.Equal(t, SortRecent, ParseTopicSort("bogus"))
	assert.Equal(t, SortRecent, ParseTopicSort(""))
}
