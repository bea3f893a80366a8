package routes

import (
	"net/http"

	"github.com/oncograph/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetCacheStatsHandler reports semantic cache effectiveness counters.
func GetCacheStatsHandler(c echo.Context) error {
	semanticCache := c.(*middleware.AppContext).App.Cache
	return c.JSON(http.StatusOK, semanticCache.Stats())
}
