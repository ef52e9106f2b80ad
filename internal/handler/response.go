package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "agridynamic/internal/errors"
)

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a service error into an HTTP error. The original error is
// kept as the internal cause for the central error handler.
func fail(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
