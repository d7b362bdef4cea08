package router

import (
	"shopRecommender/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, optionalAuth echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", optionalAuth)
	reco.GET("", handler.Recommend)
	reco.GET("/explain", handler.Explain)
	reco.GET("/trending", handler.Trending)
}

// SetInternalRoutes serves the storefront backend over the private network.
func SetInternalRoutes(e *echo.Echo, handler *rest.RecommendationHandler) {
	internal := e.Group("/internal")
	internal.POST("/recommendations", handler.RecommendInternal)
}

func SetRecommendAdminRoutes(api *echo.Group, handler *rest.RecommendAdminHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/recommend", authRequired, adminOnly)
	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
}

func SetOpsRoutes(e *echo.Echo, health *rest.HealthHandler) {
	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
