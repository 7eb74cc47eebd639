package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/middleware"
	"github.com/cooklog/backend/internal/service"
)

// SetupAPI wires services and handlers under /api/v1. Auth routes stay
// open; everything else sits behind the auth middleware, plus the rate
// limiter when one is provided.
func SetupAPI(router *gin.Engine, db *gorm.DB, jwtSecret string, blobs service.BlobStore, limiter *middleware.RateLimiter) {
	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(db, jwtSecret)
		recipeService := service.NewRecipeService(db)
		dishService := service.NewDishService(db)
		sessionService := service.NewSessionService(db)
		resultService := service.NewResultService(db)
		attachmentService := service.NewAttachmentService(db, blobs)
		dashboardService := service.NewDashboardService(db)

		authHandler := NewAuthHandler(authService)
		recipeHandler := NewRecipeHandler(recipeService)
		dishHandler := NewDishHandler(dishService)
		sessionHandler := NewSessionHandler(sessionService, resultService)
		targetHandler := NewTargetHandler(attachmentService)
		dashboardHandler := NewDashboardHandler(dashboardService)

		authHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		if limiter != nil {
			protected.Use(limiter.Middleware())
		}
		{
			recipeHandler.RegisterRoutes(protected)
			dishHandler.RegisterRoutes(protected)
			sessionHandler.RegisterRoutes(protected)
			targetHandler.RegisterRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)
		}
	}
}
