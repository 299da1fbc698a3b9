package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/service"
)

const sourceCreationMessage = "There was an error with the RSS feed link creation."

// envelope wraps every response of the aggregator API.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Data    string `json:"data" example:"feedId missing."`
}

func success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Error returns a failure envelope with the given status and message.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Success: false, Data: message})
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingField):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalid):
		return Error(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrNotFound):
		return Error(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrFeedFetch):
		var fetchErr *service.FetchError
		if errors.As(err, &fetchErr) {
			return Error(c, http.StatusBadGateway, fetchErr.Message)
		}
		return Error(c, http.StatusBadGateway, "feed fetch failed")
	case errors.Is(err, service.ErrSourceCreation):
		return Error(c, http.StatusInternalServerError, sourceCreationMessage)
	default:
		logger.Error("request failed", "module", "handler", "action", "respond", "resource", "http", "result", "failed", "path", c.Path(), "error", err)
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
