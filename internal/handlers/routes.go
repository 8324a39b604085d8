package handlers

import "github.com/gin-gonic/gin"

// RouteOptions carries the middleware applied to route groups
type RouteOptions struct {
	// WriteMiddleware runs before every forum write
	WriteMiddleware []gin.HandlerFunc
	// AdminMiddleware runs before the cache maintenance endpoints
	AdminMiddleware []gin.HandlerFunc
}

// RegisterRoutes mounts the API on r
func (h *Handlers) RegisterRoutes(r gin.IRouter, opts RouteOptions) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/directory", h.GetDirectory)

		cacheGroup := api.Group("/cache")
		{
			cacheGroup.Use(opts.AdminMiddleware...)
			cacheGroup.POST("/clear", h.ClearCache)
			cacheGroup.GET("/stats", h.GetCacheStats)
		}

		forum := api.Group("/forum")
		{
			forum.GET("/topics", h.ListTopics)
			forum.GET("/topics/:id", h.GetTopic)

			writes := forum.Group("")
			writes.Use(opts.WriteMiddleware...)
			writes.POST("/topics", h.CreateTopic)
			writes.POST("/topics/:id/reply", h.CreateReply)
			writes.POST("/flag", h.FlagContent)
			writes.POST("/upvote", h.UpvoteTopic)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/mentions", h.GetMentionAnalytics)
		}

		blog := api.Group("/blog")
		{
			blog.GET("/posts", h.ListBlogPosts)
			blog.GET("/posts/:slug", h.GetBlogPost)
			blog.GET("/featured", h.GetFeaturedBlogPost)
		}
	}
}
