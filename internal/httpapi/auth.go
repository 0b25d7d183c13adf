package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// BearerAuth rejects requests whose Authorization header does not carry the
// shared secret. An empty secret rejects every request.
func BearerAuth(secret string) echo.MiddlewareFunc {
	secretBytes := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, bearerPrefix)
			if !ok || token == "" || len(secretBytes) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if subtle.ConstantTimeCompare([]byte(token), secretBytes) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			return next(c)
		}
	}
}
