package middleware

import (
	"net/http"
	"strings"

	"user-notification-system/internal/auth"

	"github.com/labstack/echo/v4"
)

// SubjectKey is the echo context key holding the authenticated subject.
const SubjectKey = "subject"

// BearerAuth validates "Authorization: Bearer <token>" on echo routes.
func BearerAuth(tokens *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or malformed bearer token"})
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			c.Set(SubjectKey, claims.Subject)
			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
