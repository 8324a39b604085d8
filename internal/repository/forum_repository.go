package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zfogg/curlmap/backend/internal/models"
	"gorm.io/gorm"
)

// TopicSort selects the ordering of topic listings
type TopicSort string

const (
	SortRecent  TopicSort = "recent"
	SortReplies TopicSort = "replies"
	SortNewest  TopicSort = "newest"
)

const (
	DefaultTopicLimit = 50
	MaxTopicLimit     = 100
)

// ParseTopicSort maps a query value to a sort order, defaulting to recent
func ParseTopicSort(s string) TopicSort {
	switch TopicSort(strings.ToLower(strings.TrimSpace(s))) {
	case SortReplies:
		return SortReplies
	case SortNewest:
		return SortNewest
	default:
		return SortRecent
	}
}

// TopicFilter holds the listing options for ListTopics
type TopicFilter struct {
	SortBy TopicSort
	Tags   []string
	Search string
	Limit  int
	Offset int
}

func (f TopicFilter) normalized() TopicFilter {
	if f.SortBy == "" {
		f.SortBy = SortRecent
	}
	if f.Limit <= 0 {
		f.Limit = DefaultTopicLimit
	}
	if f.Limit > MaxTopicLimit {
		f.Limit = MaxTopicLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// ForumRepository stores topics and replies and rebuilds reply trees on read
type ForumRepository interface {
	CreateTopic(ctx context.Context, topic *models.Topic) error
	ListTopics(ctx context.Context, filter TopicFilter) ([]models.Topic, error)
	GetTopic(ctx context.Context, topicID uint) (*models.TopicWithReplies, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
	FlagContent(ctx context.Context, kind models.ContentKind, id uint) error
	UpvoteTopic(ctx context.Context, topicID uint) error
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository creates a new forum repository
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

// CreateTopic inserts a topic with zeroed counters
func (r *forumRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if topic == nil {
		return ErrInvalidInput
	}

	topic.ID = 0
	topic.UpvotesCount = 0
	topic.RepliesCount = 0
	topic.FlagCount = 0

	if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// ListTopics returns unflagged topics matching filter
func (r *forumRepository) ListTopics(ctx context.Context, filter TopicFilter) ([]models.Topic, error) {
	f := filter.normalized()

	q := r.db.WithContext(ctx).
		Model(&models.Topic{}).
		Where("flag_count < ?", models.FlagThreshold)

	if len(f.Tags) > 0 {
		q = whereArrayOverlaps(q, "tags", f.Tags)
	}

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
	}

	switch f.SortBy {
	case SortReplies:
		q = q.Order("replies_count DESC").Order("updated_at DESC")
	case SortNewest:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("updated_at DESC")
	}

	topics := make([]models.Topic, 0)
	err := q.Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// GetTopic loads a topic and its visible replies as a tree
func (r *forumRepository) GetTopic(ctx context.Context, topicID uint) (*models.TopicWithReplies, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).First(&topic, topicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTopicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}

	var replies []models.Reply
	err = r.db.WithContext(ctx).
		Where("topic_id = ? AND flag_count < ?", topicID, models.FlagThreshold).
		Order("created_at ASC").
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, fmt.Errorf("get topic replies: %w", err)
	}

	return &models.TopicWithReplies{
		Topic:   topic,
		Replies: BuildReplyTree(replies),
	}, nil
}

// CreateReply validates the nesting depth, inserts the reply and bumps the
// topic's reply counter and activity time in one transaction.
func (r *forumRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	if reply == nil {
		return ErrInvalidInput
	}
	reply.ID = 0
	reply.FlagCount = 0

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		err := tx.Select("id").First(&topic, reply.TopicID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		if err != nil {
			return fmt.Errorf("load topic: %w", err)
		}

		if reply.ParentReplyID != nil {
			var parent models.Reply
			err := tx.Select("id", "topic_id", "parent_reply_id").First(&parent, *reply.ParentReplyID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReplyNotFound
			}
			if err != nil {
				return fmt.Errorf("load parent reply: %w", err)
			}
			if parent.TopicID != reply.TopicID {
				return ErrReplyNotFound
			}
			if parent.ParentReplyID != nil {
				return ErrMaxDepthExceeded
			}
		}

		if err := tx.Omit("Topic").Create(reply).Error; err != nil {
			return fmt.Errorf("insert reply: %w", err)
		}

		err = tx.Model(&models.Topic{}).
			Where("id = ?", reply.TopicID).
			UpdateColumns(map[string]interface{}{
				"replies_count": gorm.Expr("replies_count + ?", 1),
				"updated_at":    tx.NowFunc(),
			}).Error
		if err != nil {
			return fmt.Errorf("bump reply count: %w", err)
		}
		return nil
	})
}

// FlagContent increments the flag counter of a topic or reply
func (r *forumRepository) FlagContent(ctx context.Context, kind models.ContentKind, id uint) error {
	var (
		model    interface{}
		notFound error
	)
	switch kind {
	case models.ContentTopic:
		model, notFound = &models.Topic{}, ErrTopicNotFound
	case models.ContentReply:
		model, notFound = &models.Reply{}, ErrReplyNotFound
	default:
		return ErrInvalidInput
	}

	res := r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		UpdateColumn("flag_count", gorm.Expr("flag_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("flag %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// UpvoteTopic increments the upvote counter of a topic
func (r *forumRepository) UpvoteTopic(ctx context.Context, topicID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Topic{}).
		Where("id = ?", topicID).
		UpdateColumn("upvotes_count", gorm.Expr("upvotes_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("upvote topic: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTopicNotFound
	}
	return nil
}
