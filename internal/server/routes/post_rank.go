package routes

import (
	"net/http"

	"github.com/oncograph/backend/internal/server/middleware"
	"github.com/oncograph/backend/pkg/rank"

	"github.com/labstack/echo/v4"
)

const defaultTopK = 10

// RankGraphHandler builds a graph from the request inputs and runs robust
// ranking plus cross-domain boosting for the given query.
func RankGraphHandler(c echo.Context) error {
	type rankGraphBody struct {
		graphInput
		Query string `json:"query" validate:"required"`
		TopK  int    `json:"top_k"`
	}

	type rankGraphResponse struct {
		Message          string             `json:"message"`
		Activations      map[string]float64 `json:"activations,omitempty"`
		Top              []rank.NodeScore   `json:"top,omitempty"`
		NovelConnections []rank.NodeScore   `json:"novel_connections,omitempty"`
	}

	data := new(rankGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, rankGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, rankGraphResponse{
			Message: "Invalid request body",
		})
	}
	if data.TopK <= 0 {
		data.TopK = defaultTopK
	}

	ctx := c.Request().Context()
	advisor := c.(*middleware.AppContext).App.Advisor

	store := buildStore(c, data.graphInput)
	scores := rank.RankRobust(ctx, store, data.Query, advisor, rank.Params{})
	scores = rank.Boost(store, scores)

	return c.JSON(http.StatusOK, rankGraphResponse{
		Message:          "Ranking complete",
		Activations:      scores,
		Top:              rank.TopK(scores, data.TopK),
		NovelConnections: rank.NovelConnections(store, data.Query, scores),
	})
}
