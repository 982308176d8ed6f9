package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/streetpulse/streetpulse-backend/internal/handler"
	"github.com/streetpulse/streetpulse-backend/internal/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Sessions   *handler.SessionHandler
	Videos     *handler.VideoHandler
	Engagement *handler.EngagementHandler
	Comments   *handler.CommentHandler
	Heatmap    *handler.HeatmapHandler
	AI         *handler.AIHandler
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(h Handlers, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "StreetPulse API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/sessions", middleware.RateLimit(1, 3), h.Sessions.CheckIn)

		videos := api.Group("/videos")
		{
			videos.GET("", h.Videos.Feed)
			videos.POST("", middleware.RateLimit(0.5, 2), h.Videos.Upload)

			videos.GET("/:id/reactions", h.Engagement.GetReactions)
			videos.POST("/:id/reactions", h.Engagement.AddReaction)
			videos.GET("/:id/votes", h.Engagement.GetVotes)
			videos.POST("/:id/votes", h.Engagement.CastVote)
			videos.GET("/:id/comments", h.Comments.List)
			videos.POST("/:id/comments", h.Comments.Post)
			videos.GET("/:id/ai", h.AI.Get)
		}

		heatmap := api.Group("/heatmap")
		{
			heatmap.GET("", h.Heatmap.Zones)
			heatmap.GET("/pulse", h.Heatmap.Pulse)
		}
	}

	return r
}
