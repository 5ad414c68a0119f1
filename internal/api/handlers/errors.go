package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"user-notification-system/internal/domain"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrLoginNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
