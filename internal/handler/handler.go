package handler

import (
	"errors"
	"net/http"
	"strconv"

	"houserent-service/internal/service"

	"github.com/labstack/echo/v4"
)

// statusFor maps service error kinds to HTTP statuses. Unknown errors are
// persistence failures and surface as a generic 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// jsonError writes the error response, hiding internal error details
// behind a generic message on 500s.
func jsonError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// idParam parses the :id route parameter
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
