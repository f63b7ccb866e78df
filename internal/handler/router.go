package handler

import (
	"github.com/fizipop/uni-ai-app/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires all routes. Signup and login are public but rate
// limited; everything under /api requires a bearer token.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	authLimiter := middleware.AuthRateLimiter()
	router.POST("/signup", authLimiter, h.Signup)
	router.POST("/login", authLimiter, h.Login)

	protected := router.Group("/api").Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", h.Profile)
		protected.POST("/user-data", h.UpdateUserData)
		protected.POST("/ai", h.Recommend)
		protected.POST("/cat-ai", h.CatAI)
		protected.GET("/cat-ai/history", h.ChatHistory)
		protected.POST("/logout", h.Logout)
	}

	router.GET("/ws/advisor", h.HandleAdvisorChat)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
