package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/directory"
	"github.com/zfogg/curlmap/backend/internal/mentions"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"github.com/zfogg/curlmap/backend/internal/spamguard"
	"github.com/zfogg/curlmap/backend/internal/testutil"
	"github.com/zfogg/curlmap/backend/internal/util"
	"gorm.io/gorm"
)

// HandlersTestSuite drives the API through a real router over sqlite
type HandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	store    *cache.MemoryStore
	router   *gin.Engine
	handlers *Handlers
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = testutil.NewTestDB(suite.T())
	suite.store = cache.NewMemoryStore()

	salons := repository.NewDirectoryRepository(suite.db)
	suite.handlers = NewHandlers(suite.db)
	suite.handlers.SetSpamGuard(spamguard.NewGuard(suite.store, spamguard.DefaultOptions()))
	suite.handlers.SetMentionDetector(mentions.NewDetector(suite.store, salons, time.Hour))
	suite.handlers.SetDirectoryService(directory.NewService(salons, nil, suite.store, time.Hour))

	suite.router = gin.New()
	suite.handlers.RegisterRoutes(suite.router, RouteOptions{})
}

func (suite *HandlersTestSuite) request(method, path string, body interface{}, remoteAddr string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	return suite.request(method, path, body, "")
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *HandlersTestSuite) createTopic(title, content string) models.Topic {
	w := suite.do("POST", "/api/forum/topics", gin.H{"title": title, "content": content})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var topic models.Topic
	suite.decode(w, &topic)
	return topic
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do("GET", "/health", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var body map[string]interface{}
	suite.decode(w, &body)
	assert.Equal(suite.T(), "ok", body["status"])
	assert.Equal(suite.T(), "curlmap-backend", body["service"])
}

func (suite *HandlersTestSuite) TestCreateTopic_DetectsMentions() {
	testutil.SeedSalon(suite.T(), suite.db, "salon-1", "Curl Studio",
		models.Stylist{ID: "s1", Name: "Jane Doe"},
		models.Stylist{ID: "s2", Name: "Maria Lopez"},
	)

	w := suite.do("POST", "/api/forum/topics", gin.H{
		"title":      "Best cut ever",
		"content":    "I loved my cut with jane doe last weekend!",
		"authorName": "  Sam  ",
		"tags":       []string{"Reviews", " Reviews ", ""},
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	var topic models.Topic
	suite.decode(w, &topic)
	assert.NotZero(suite.T(), topic.ID)
	assert.Equal(suite.T(), models.StringArray{"s1"}, topic.MentionedStylistIDs)
	assert.Equal(suite.T(), models.StringArray{"Reviews"}, topic.Tags)
	require.NotNil(suite.T(), topic.AuthorName)
	assert.Equal(suite.T(), "Sam", *topic.AuthorName)
	assert.Zero(suite.T(), topic.RepliesCount)
}

func (suite *HandlersTestSuite) TestCreateTopic_Validation() {
	w := suite.do("POST", "/api/forum/topics", gin.H{"content": "A body without any title at all"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/api/forum/topics", gin.H{
		"title":       "Email check",
		"content":     "This one has a malformed author email.",
		"authorEmail": "not-an-email",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTopic_GuardRejections() {
	w := suite.do("POST", "/api/forum/topics", gin.H{"title": "Hi", "content": "short"})
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)
	var body util.ErrorResponse
	suite.decode(w, &body)
	assert.Equal(suite.T(), "RATE_LIMITED", body.Code)
	assert.Equal(suite.T(), spamguard.ReasonTooShort, body.Message)

	w = suite.do("POST", "/api/forum/topics", gin.H{
		"title":   "Great deal",
		"content": "Visit my CASINO for the best curl products around",
	})
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)
	suite.decode(w, &body)
	assert.Equal(suite.T(), spamguard.ReasonKeywords, body.Message)
}

func (suite *HandlersTestSuite) TestCreateTopic_GuardCountsSubmittedBody() {
	// Screened as submitted, stored trimmed.
	w := suite.do("POST", "/api/forum/topics", gin.H{
		"title":   "Frizz",
		"content": "           so frizzy!  ",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	var topic models.Topic
	suite.decode(w, &topic)
	assert.Equal(suite.T(), "Frizz", topic.Title)
	assert.Equal(suite.T(), "so frizzy!", topic.Content)
}

func (suite *HandlersTestSuite) TestCreateTopic_RateLimitPerClient() {
	for i := 1; i <= 5; i++ {
		w := suite.request("POST", "/api/forum/topics", gin.H{
			"title":   fmt.Sprintf("Question %d", i),
			"content": fmt.Sprintf("Looking for curl advice, question number %d.", i),
		}, "192.0.2.10:1234")
		require.Equal(suite.T(), http.StatusCreated, w.Code, "post %d", i)
	}

	w := suite.request("POST", "/api/forum/topics", gin.H{
		"title":   "Question 6",
		"content": "Looking for curl advice, question number 6.",
	}, "192.0.2.10:1234")
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)
	var body util.ErrorResponse
	suite.decode(w, &body)
	assert.Equal(suite.T(), "Rate limit exceeded (5 posts per hour)", body.Message)

	w = suite.request("POST", "/api/forum/topics", gin.H{
		"title":   "Question 6",
		"content": "Looking for curl advice, question number 6.",
	}, "198.51.100.7:1234")
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTopic_DuplicateRejected() {
	suite.createTopic("Diffuser tips", "What diffuser works best for type 3 hair?")

	w := suite.do("POST", "/api/forum/topics", gin.H{
		"title":   "diffuser tips",
		"content": "  What diffuser works best for type 3 hair?  ",
	})
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Duplicate content detected")
}

func (suite *HandlersTestSuite) TestReplyDepthEndToEnd() {
	topic := suite.createTopic("Deep thread", "Let us see how deep this thread can go.")
	replyPath := fmt.Sprintf("/api/forum/topics/%d/reply", topic.ID)

	w := suite.do("POST", replyPath, gin.H{"content": "First level reply to the topic."})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var first models.Reply
	suite.decode(w, &first)
	assert.Nil(suite.T(), first.ParentReplyID)

	w = suite.do("POST", replyPath, gin.H{"content": "Second level reply, still allowed.", "parentReplyId": first.ID})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var second models.Reply
	suite.decode(w, &second)
	require.NotNil(suite.T(), second.ParentReplyID)
	assert.Equal(suite.T(), first.ID, *second.ParentReplyID)

	w = suite.do("POST", replyPath, gin.H{"content": "Third level reply must be rejected.", "parentReplyId": second.ID})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var body util.ErrorResponse
	suite.decode(w, &body)
	assert.Equal(suite.T(), "NESTING_DEPTH_EXCEEDED", body.Code)
	assert.Equal(suite.T(), "Maximum nesting depth of 2 levels exceeded", body.Message)

	w = suite.do("GET", fmt.Sprintf("/api/forum/topics/%d", topic.ID), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var got models.TopicWithReplies
	suite.decode(w, &got)
	assert.Equal(suite.T(), 2, got.RepliesCount)
	require.Len(suite.T(), got.Replies, 1)
	assert.Equal(suite.T(), first.ID, got.Replies[0].ID)
	require.Len(suite.T(), got.Replies[0].Children, 1)
	assert.Equal(suite.T(), second.ID, got.Replies[0].Children[0].ID)
}

func (suite *HandlersTestSuite) TestReplyErrors() {
	w := suite.do("POST", "/api/forum/topics/abc/reply", gin.H{"content": "Reply to a topic that has a bad id."})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/api/forum/topics/999/reply", gin.H{"content": "Reply to a topic that is not there."})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	topic := suite.createTopic("Parents", "Checking how missing parents are handled.")
	w = suite.do("POST", fmt.Sprintf("/api/forum/topics/%d/reply", topic.ID),
		gin.H{"content": "Reply pointing at a missing parent.", "parentReplyId": 999})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do("POST", fmt.Sprintf("/api/forum/topics/%d/reply", topic.ID), gin.H{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestGetTopic() {
	w := suite.do("GET", "/api/forum/topics/not-a-number", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("GET", "/api/forum/topics/12345", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	var body util.ErrorResponse
	suite.decode(w, &body)
	assert.Equal(suite.T(), "NOT_FOUND", body.Code)
}

func (suite *HandlersTestSuite) TestListTopics_FiltersAndFlags() {
	a := suite.createTopic("Products for curls", "Which leave-in conditioner do you all use?")
	b := suite.createTopic("Salon near downtown", "Looking for a good salon near downtown.")

	w := suite.do("GET", "/api/forum/topics?search=CONDITIONER", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var topics []models.Topic
	suite.decode(w, &topics)
	require.Len(suite.T(), topics, 1)
	assert.Equal(suite.T(), a.ID, topics[0].ID)

	for i := 0; i < models.FlagThreshold; i++ {
		w = suite.do("POST", "/api/forum/flag", gin.H{"contentType": "topic", "contentId": b.ID})
		require.Equal(suite.T(), http.StatusOK, w.Code)
	}

	w = suite.do("GET", "/api/forum/topics", nil)
	suite.decode(w, &topics)
	require.Len(suite.T(), topics, 1)
	assert.Equal(suite.T(), a.ID, topics[0].ID)
}

func (suite *HandlersTestSuite) TestFlagContent() {
	topic := suite.createTopic("Flag me", "This topic will be flagged once.")

	w := suite.do("POST", "/api/forum/flag", gin.H{"contentType": "topic", "contentId": topic.ID})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Content flagged successfully")

	w = suite.do("POST", "/api/forum/flag", gin.H{"contentType": "post", "contentId": topic.ID})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/api/forum/flag", gin.H{"contentType": "topic", "contentId": "1"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/api/forum/flag", gin.H{"contentType": "reply", "contentId": 999})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUpvoteTopic() {
	topic := suite.createTopic("Upvote me", "This topic should collect an upvote.")

	w := suite.do("POST", "/api/forum/upvote", gin.H{"topicId": topic.ID})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Topic upvoted successfully")

	w = suite.do("POST", "/api/forum/upvote", gin.H{"topicId": "abc"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/api/forum/upvote", gin.H{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("GET", fmt.Sprintf("/api/forum/topics/%d", topic.ID), nil)
	var got models.TopicWithReplies
	suite.decode(w, &got)
	assert.Equal(suite.T(), 1, got.UpvotesCount)
}

func (suite *HandlersTestSuite) TestDirectoryCacheHeaders() {
	salon := testutil.SeedSalon(suite.T(), suite.db, "salon-1", "Curl Studio",
		models.Stylist{ID: "s1", Name: "Jane Doe"},
	)
	require.NoError(suite.T(), suite.db.Model(&salon).Updates(map[string]interface{}{
		"lat": 43.15, "lng": -77.6,
	}).Error)

	w := suite.do("GET", "/api/directory", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	assert.Equal(suite.T(), "MISS", w.Header().Get("X-Cache"))

	var agg directory.Aggregate
	suite.decode(w, &agg)
	require.Len(suite.T(), agg.Salons, 1)
	assert.Equal(suite.T(), "Curl Studio", agg.Salons[0].Name)

	w = suite.do("GET", "/api/directory", nil)
	assert.Equal(suite.T(), "HIT", w.Header().Get("X-Cache"))

	w = suite.do("GET", "/api/cache/stats", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var stats directory.Stats
	suite.decode(w, &stats)
	assert.Equal(suite.T(), 1, stats.Keys)
	assert.Equal(suite.T(), int64(1), stats.Hits)
	assert.Equal(suite.T(), int64(1), stats.Misses)
	assert.Equal(suite.T(), 3600, stats.TTL)

	w = suite.do("POST", "/api/cache/clear", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Cache cleared successfully")

	w = suite.do("GET", "/api/directory", nil)
	assert.Equal(suite.T(), "MISS", w.Header().Get("X-Cache"))
}

func (suite *HandlersTestSuite) TestMentionAnalytics() {
	testutil.SeedSalon(suite.T(), suite.db, "salon-1", "Curl Studio",
		models.Stylist{ID: "s1", Name: "Jane Doe"},
	)
	suite.createTopic("Shout out", "Jane Doe gave me the best curly cut ever.")

	w := suite.do("GET", "/api/analytics/mentions", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var stats []models.MentionStats
	suite.decode(w, &stats)
	require.Len(suite.T(), stats, 1)
	assert.Equal(suite.T(), "s1", stats[0].StylistID)
	assert.Equal(suite.T(), "Jane Doe", stats[0].StylistName)
	assert.Equal(suite.T(), 1, stats[0].MentionCount)
}

func (suite *HandlersTestSuite) TestBlog() {
	now := time.Now().UTC()
	require.NoError(suite.T(), suite.db.Create(&models.BlogPost{
		Slug: "older", Title: "Older", Content: "old", Tags: models.StringArray{"care"}, PublishedAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(suite.T(), suite.db.Create(&models.BlogPost{
		Slug: "newer", Title: "Newer", Content: "new", Tags: models.StringArray{"cuts"}, PublishedAt: now,
	}).Error)

	w := suite.do("GET", "/api/blog/featured", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "null", w.Body.String())

	w = suite.do("GET", "/api/blog/posts", nil)
	var posts []models.BlogPost
	suite.decode(w, &posts)
	require.Len(suite.T(), posts, 2)
	assert.Equal(suite.T(), "newer", posts[0].Slug)

	w = suite.do("GET", "/api/blog/posts?tag=care", nil)
	suite.decode(w, &posts)
	require.Len(suite.T(), posts, 1)
	assert.Equal(suite.T(), "older", posts[0].Slug)

	w = suite.do("GET", "/api/blog/posts/older", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("GET", "/api/blog/posts/missing", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
