package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole aborts with 403 unless the authenticated user's role claim
// matches one of the given roles. Matching is case-insensitive because role
// names are stored capitalized but older tokens carried them upper-cased.
// Assumes JWTAuth ran earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, r := range roles {
				if strings.EqualFold(role, r) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
