package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bytehub-dev/bytehub/internal/handlers"
)

func NewRouter(webhook *handlers.WebhookHandler, interactions *handlers.InteractionHandler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.HealthCheck)

	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/github", webhook.Handle)
		webhooks.POST("/discord", interactions.Handle)
	}

	return r
}
