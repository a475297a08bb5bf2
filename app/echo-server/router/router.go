package router

import (
	"refrescobot/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetBeverageRoutes(api *echo.Group, handler *rest.BeverageHandler) {
	beverages := api.Group("/beverages")
	beverages.GET("", handler.List)
	beverages.GET("/:id/similar", handler.Similar)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.POST("", handler.Recommend)
	reco.GET("/:session_id/more", handler.MoreOptions)

	api.POST("/policy", handler.ResolvePolicy)
	api.POST("/ratings", handler.Rate)
}

func SetAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	api.POST("/admin/login", handler.Login)

	admin := api.Group("/admin", authRequired, adminOnly)
	admin.POST("/logout", handler.Logout)

	admin.GET("/model", handler.ModelStatus)
	admin.POST("/model/retrain", handler.Retrain)
	admin.DELETE("/training-samples", handler.ClearSamples)
	admin.POST("/catalog/process", handler.ProcessCatalog)
	admin.GET("/beverages/:id/cluster", handler.BeverageCluster)

	admin.GET("/engine-config", handler.GetEngineConfig)
	admin.PUT("/engine-config", handler.UpdateEngineConfig)
}
