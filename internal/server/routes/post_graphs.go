package routes

import (
	"net/http"

	"github.com/oncograph/backend/pkg/graph"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BuildGraphHandler assembles a knowledge graph from collaborator inputs and
// returns its serialized form.
func BuildGraphHandler(c echo.Context) error {
	type buildGraphBody struct {
		graphInput
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}

	type buildGraphResponse struct {
		Message string         `json:"message"`
		ID      string         `json:"id,omitempty"`
		Graph   *graph.Payload `json:"graph,omitempty"`
	}

	data := new(buildGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "Invalid request body",
		})
	}

	if data.Width <= 0 {
		data.Width = graph.DefaultSerialiseWidth
	}
	if data.Height <= 0 {
		data.Height = graph.DefaultSerialiseHeight
	}

	store := buildStore(c, data.graphInput)
	payload := store.Serialise(data.Width, data.Height)

	return c.JSON(http.StatusOK, buildGraphResponse{
		Message: "Graph built",
		ID:      gonanoid.Must(),
		Graph:   &payload,
	})
}
