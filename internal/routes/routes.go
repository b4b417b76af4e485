package routes

import (
	"community_issues/internal/handlers"
	"community_issues/internal/logger"
	"community_issues/pkg/apperrors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts the API under /api plus health and docs.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.HandleMethodNotAllowed = true
	ginRouter.NoMethod(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrMethodNotAllowed)
	})
	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrRouteNotFound)
	})

	appHandlers.HealthHandler.RegisterRoutes(&ginRouter.RouterGroup)

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ReportHandler.RegisterRoutes(api)
		appHandlers.CommentHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info("Routes registered", "routes", len(ginRouter.Routes()))
}
