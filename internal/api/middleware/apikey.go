package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIKey returns Echo middleware rejecting API calls whose apikey query
// argument differs from key. An empty key disables the check. Operational
// endpoints are never checked.
func APIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" || !isAPIPath(c.Request().URL.Path) {
				return next(c)
			}
			if c.QueryParam("apikey") != key {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid apikey",
				})
			}
			return next(c)
		}
	}
}

func isAPIPath(p string) bool {
	return strings.HasPrefix(p, "/api/")
}
