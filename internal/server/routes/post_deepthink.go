package routes

import (
	"encoding/json"
	"net/http"

	"github.com/oncograph/backend/internal/server/middleware"
	"github.com/oncograph/backend/pkg/logger"
	"github.com/oncograph/backend/pkg/rank"

	"github.com/labstack/echo/v4"
)

type deepThinkBody struct {
	graphInput
	Query    string `json:"query" validate:"required"`
	MaxSteps int    `json:"max_steps"`
}

// DeepThinkHandler runs the full reflective ranking loop and returns the
// accumulated activations with the decision trace.
func DeepThinkHandler(c echo.Context) error {
	type deepThinkResponse struct {
		Message string                `json:"message"`
		Result  *rank.DeepThinkResult `json:"result,omitempty"`
	}

	data := new(deepThinkBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, deepThinkResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, deepThinkResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	advisor := c.(*middleware.AppContext).App.Advisor

	store := buildStore(c, data.graphInput)
	result, err := rank.DeepThink(ctx, store, rank.DeepThinkParams{
		Query:    data.Query,
		Advisor:  advisor,
		MaxSteps: data.MaxSteps,
	})
	if err != nil {
		logger.Error("Deep think aborted", "err", err)
		return c.JSON(http.StatusInternalServerError, deepThinkResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deepThinkResponse{
		Message: "Deep think complete",
		Result:  &result,
	})
}

// DeepThinkStreamHandler is the streaming variant: one JSON line per
// progress event, flushed as it happens, ending with the final result event.
func DeepThinkStreamHandler(c echo.Context) error {
	data := new(deepThinkBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	ctx := c.Request().Context()
	advisor := c.(*middleware.AppContext).App.Advisor
	store := buildStore(c, data.graphInput)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(http.StatusOK)

	enc := json.NewEncoder(c.Response())
	emit := func(event rank.Event) error {
		if err := enc.Encode(event); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	}

	if _, err := rank.DeepThinkStream(ctx, store, rank.DeepThinkParams{
		Query:    data.Query,
		Advisor:  advisor,
		MaxSteps: data.MaxSteps,
	}, emit); err != nil {
		logger.Error("Deep think stream aborted", "err", err)
	}
	return nil
}
