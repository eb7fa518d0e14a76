package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopchat/backend/config"
	"github.com/shopchat/backend/internal/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logger.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		chat := v1.Group("/chat")
		chat.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
		{
			chat.POST("/message", handler.SendMessage)
			chat.POST("/recommendations", handler.GetRecommendations)
			chat.POST("/preferences", handler.SavePreferences)
		}
	}

	return router
}
