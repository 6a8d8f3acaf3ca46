package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/AriAlanPR/image-gallery-saver/internal/channel"
	"github.com/AriAlanPR/image-gallery-saver/shared/db"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthTimeout = 2 * time.Second

// NewApi registers the channel routes, and the media routes when the platform
// has a media index.
func NewApi(router *gin.Engine, methods *channel.MethodHandler, index domain.MediaIndex, database db.Database) {
	router.GET("/healthz", healthz(database))

	channelsV1 := router.Group("channels/v1")
	{
		channelsV1.POST("/:channel", NewChannelHandler(methods).Invoke)
	}

	if index != nil {
		media := NewMediaHandler(index)
		mediaV1 := router.Group("media/v1")
		{
			mediaV1.GET("/entry", media.GetEntry)
			mediaV1.GET("/content", media.GetContent)
		}
	}
}

func healthz(database db.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := database.Ping(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
