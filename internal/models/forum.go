package models

import (
	"time"

	"gorm.io/gorm"
)

// FlagThreshold is the flag count at which topics and replies drop out of
// normal listings.
const FlagThreshold = 5

// MaxReplyDepth is the deepest allowed chain: topic -> reply -> sub-reply.
const MaxReplyDepth = 2

// Topic is a forum discussion thread
type Topic struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	Title               string      `gorm:"type:text;not null" json:"title"`
	Content             string      `gorm:"type:text;not null" json:"content"`
	AuthorName          *string     `gorm:"type:text" json:"authorName"`
	AuthorEmail         *string     `gorm:"type:text" json:"authorEmail"`
	Tags                StringArray `gorm:"not null;default:'{}'" json:"tags"`
	MentionedStylistIDs StringArray `gorm:"column:mentioned_stylist_ids;not null;default:'{}'" json:"mentionedStylistIds"`
	UpvotesCount        int         `gorm:"not null;default:0" json:"upvotesCount"`
	RepliesCount        int         `gorm:"not null;default:0" json:"repliesCount"`
	FlagCount           int         `gorm:"not null;default:0" json:"flagCount"`
	CreatedAt           time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time   `gorm:"index" json:"updatedAt"`
}

func (Topic) TableName() string { return "forum_topics" }

// BeforeCreate normalises nil arrays so they are stored as '{}'
func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.Tags == nil {
		t.Tags = StringArray{}
	}
	if t.MentionedStylistIDs == nil {
		t.MentionedStylistIDs = StringArray{}
	}
	return nil
}

// Reply is a response to a topic or to a first-level reply
type Reply struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TopicID       uint      `gorm:"not null;index" json:"topicId"`
	Topic         *Topic    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ParentReplyID *uint     `gorm:"index" json:"parentReplyId"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AuthorName    *string   `gorm:"type:text" json:"authorName"`
	AuthorEmail   *string   `gorm:"type:text" json:"authorEmail"`
	FlagCount     int       `gorm:"not null;default:0" json:"flagCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Reply) TableName() string { return "forum_replies" }

// ReplyNode is a reply with its direct children attached
type ReplyNode struct {
	Reply
	Children []*ReplyNode `json:"children"`
}

// TopicWithReplies is a topic plus its reply tree
type TopicWithReplies struct {
	Topic
	Replies []*ReplyNode `json:"replies"`
}

// ContentKind identifies what a flag targets
type ContentKind string

const (
	ContentTopic ContentKind = "topic"
	ContentReply ContentKind = "reply"
)

// Valid reports whether k is a flaggable kind
func (k ContentKind) Valid() bool {
	return k == ContentTopic || k == ContentReply
}

// MentionStats summarises how often a stylist is mentioned in topics
type MentionStats struct {
	StylistID    string         `json:"stylistId"`
	StylistName  string         `json:"stylistName"`
	MentionCount int            `json:"mentionCount"`
	RecentTopics []TopicSummary `json:"recentTopics"`
}

// TopicSummary is the short form of a topic used in analytics
type TopicSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
