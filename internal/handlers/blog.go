package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"github.com/zfogg/curlmap/backend/internal/util"
)

// ListBlogPosts returns published posts, newest first
// GET /api/blog/posts?tag=&limit=
func (h *Handlers) ListBlogPosts(c *gin.Context) {
	tag := strings.TrimSpace(c.Query("tag"))
	limit := util.ParseInt(c.Query("limit"), repository.DefaultBlogLimit)

	posts, err := h.blog.ListPosts(c.Request.Context(), tag, limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetBlogPost returns one post by slug
// GET /api/blog/posts/:slug
func (h *Handlers) GetBlogPost(c *gin.Context) {
	post, err := h.blog.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetFeaturedBlogPost returns the latest featured post, or null
// GET /api/blog/featured
func (h *Handlers) GetFeaturedBlogPost(c *gin.Context) {
	post, err := h.blog.GetFeaturedPost(c.Request.Context())
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
