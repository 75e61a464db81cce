package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

// Maintenance returns Echo middleware answering every API call with 503
// while down is set.
func Maintenance(down *atomic.Bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if down.Load() && isAPIPath(c.Request().URL.Path) {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"error": "service temporarily unavailable",
				})
			}
			return next(c)
		}
	}
}
