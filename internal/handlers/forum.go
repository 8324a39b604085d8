package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/metrics"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"github.com/zfogg/curlmap/backend/internal/telemetry"
	"github.com/zfogg/curlmap/backend/internal/util"
	"go.uber.org/zap"
)

// CreateTopicRequest is the body of a new topic
type CreateTopicRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Content     string   `json:"content" binding:"required,min=1"`
	AuthorName  *string  `json:"authorName" binding:"omitempty,max=100"`
	AuthorEmail *string  `json:"authorEmail" binding:"omitempty,email"`
	Tags        []string `json:"tags"`
}

// CreateReplyRequest is the body of a new reply
type CreateReplyRequest struct {
	Content       string  `json:"content" binding:"required,min=1"`
	AuthorName    *string `json:"authorName" binding:"omitempty,max=100"`
	AuthorEmail   *string `json:"authorEmail" binding:"omitempty,email"`
	ParentReplyID *uint   `json:"parentReplyId" binding:"omitempty,min=1"`
}

// ListTopics returns unflagged topics
// GET /api/forum/topics?sortBy=recent&tags=Help&search=curly&limit=50&offset=0
func (h *Handlers) ListTopics(c *gin.Context) {
	filter := repository.TopicFilter{
		SortBy: repository.ParseTopicSort(c.Query("sortBy")),
		Tags:   util.ParseTags(c.QueryArray("tags")),
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  util.ParseInt(c.Query("limit"), repository.DefaultTopicLimit),
		Offset: util.ParseInt(c.Query("offset"), 0),
	}

	topics, err := h.forum.ListTopics(c.Request.Context(), filter)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

// CreateTopic screens, tags and stores a new topic
// POST /api/forum/topics
func (h *Handlers) CreateTopic(c *gin.Context) {
	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		util.RespondValidationError(c, "body", "title and content are required")
		return
	}

	if !h.screen(c, req.Content, &req.Title) {
		return
	}

	tags := util.CleanTags(req.Tags)
	ctx, span := telemetry.TraceCreateTopic(c.Request.Context(), tags)
	defer span.End()

	mentioned := []string{}
	if h.mentions != nil {
		ids, err := h.mentions.Detect(ctx, content, &title)
		if err != nil {
			logger.Log.Warn("Mention detection failed", zap.Error(err))
		} else {
			mentioned = ids
		}
	}

	topic := &models.Topic{
		Title:               title,
		Content:             content,
		AuthorName:          util.TrimOptional(req.AuthorName),
		AuthorEmail:         util.TrimOptional(req.AuthorEmail),
		Tags:                models.StringArray(tags),
		MentionedStylistIDs: models.StringArray(mentioned),
	}
	if err := h.forum.CreateTopic(ctx, topic); err != nil {
		telemetry.RecordSpanError(span, err)
		util.RespondWithError(c, err)
		return
	}

	metrics.RecordForumWrite("topic")
	logger.Log.Info("Topic created",
		logger.WithTopicID(topic.ID),
		logger.WithIP(c.ClientIP()),
		zap.Int("mentions", len(mentioned)),
	)
	c.JSON(http.StatusCreated, topic)
}

// GetTopic returns a topic with its reply tree
// GET /api/forum/topics/:id
func (h *Handlers) GetTopic(c *gin.Context) {
	topicID, ok := util.ParseID(c.Param("id"))
	if !ok {
		util.RespondValidationError(c, "id", "Invalid topic ID")
		return
	}

	topic, err := h.forum.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// CreateReply adds a reply to a topic or to one of its top-level replies
// POST /api/forum/topics/:id/reply
func (h *Handlers) CreateReply(c *gin.Context) {
	topicID, ok := util.ParseID(c.Param("id"))
	if !ok {
		util.RespondValidationError(c, "id", "Invalid topic ID")
		return
	}

	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		util.RespondValidationError(c, "content", "content is required")
		return
	}

	if !h.screen(c, req.Content, nil) {
		return
	}

	ctx, span := telemetry.TraceCreateReply(c.Request.Context(), topicID, req.ParentReplyID != nil)
	defer span.End()

	reply := &models.Reply{
		TopicID:       topicID,
		ParentReplyID: req.ParentReplyID,
		Content:       content,
		AuthorName:    util.TrimOptional(req.AuthorName),
		AuthorEmail:   util.TrimOptional(req.AuthorEmail),
	}
	if err := h.forum.CreateReply(ctx, reply); err != nil {
		telemetry.RecordSpanError(span, err)
		util.RespondWithError(c, err)
		return
	}

	metrics.RecordForumWrite("reply")
	logger.Log.Info("Reply created",
		logger.WithTopicID(topicID),
		logger.WithReplyID(reply.ID),
		logger.WithIP(c.ClientIP()),
	)
	c.JSON(http.StatusCreated, reply)
}

// FlagContent bumps the flag counter of a topic or reply
// POST /api/forum/flag
func (h *Handlers) FlagContent(c *gin.Context) {
	var req struct {
		ContentType string `json:"contentType"`
		ContentID   *int64 `json:"contentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}

	kind := models.ContentKind(req.ContentType)
	if !kind.Valid() {
		util.RespondValidationError(c, "contentType", "Invalid content type")
		return
	}
	if req.ContentID == nil || *req.ContentID <= 0 {
		util.RespondValidationError(c, "contentId", "Invalid content ID")
		return
	}

	if err := h.forum.FlagContent(c.Request.Context(), kind, uint(*req.ContentID)); err != nil {
		util.RespondWithError(c, err)
		return
	}

	metrics.RecordForumWrite("flag")
	logger.Log.Info("Content flagged",
		zap.String("content_type", string(kind)),
		zap.Int64("content_id", *req.ContentID),
		logger.WithIP(c.ClientIP()),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Content flagged successfully"})
}

// UpvoteTopic bumps a topic's upvote counter
// POST /api/forum/upvote
func (h *Handlers) UpvoteTopic(c *gin.Context) {
	var req struct {
		TopicID *int64 `json:"topicId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}
	if req.TopicID == nil || *req.TopicID <= 0 {
		util.RespondValidationError(c, "topicId", "Invalid topic ID")
		return
	}

	if err := h.forum.UpvoteTopic(c.Request.Context(), uint(*req.TopicID)); err != nil {
		util.RespondWithError(c, err)
		return
	}

	metrics.RecordForumWrite("upvote")
	c.JSON(http.StatusOK, gin.H{"message": "Topic upvoted successfully"})
}

// screen runs the spam guard over the body as submitted and writes the 429
// itself when the post is rejected. A guard that cannot reach its store lets
// the post through.
func (h *Handlers) screen(c *gin.Context, content string, title *string) bool {
	if h.guard == nil {
		return true
	}

	decision, err := h.guard.Evaluate(c.Request.Context(), content, c.ClientIP(), title)
	if err != nil {
		logger.Log.Warn("Spam guard unavailable, allowing post",
			logger.WithIP(c.ClientIP()),
			zap.Error(err),
		)
		return true
	}
	if !decision.Allowed {
		util.RespondRateLimited(c, decision.Reason)
		return false
	}
	return true
}
