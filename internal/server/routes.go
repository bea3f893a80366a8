package server

import (
	"github.com/oncograph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Graph routes
	apiRoutes.POST("/graphs", routes.BuildGraphHandler)
	apiRoutes.POST("/graphs/rank", routes.RankGraphHandler)
	apiRoutes.POST("/graphs/deepthink", routes.DeepThinkHandler)
	apiRoutes.POST("/graphs/deepthink/stream", routes.DeepThinkStreamHandler)

	// Cache introspection
	apiRoutes.GET("/cache/stats", routes.GetCacheStatsHandler)
}
