package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every handler-initiated database call.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUserID reads the user id the JWT middleware stored on the context.
// Returns 0 when the request is unauthenticated.
func currentUserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// currentRole reads the role claim the JWT middleware stored on the context.
func currentRole(c echo.Context) string {
	if v, ok := c.Get("role").(string); ok {
		return v
	}
	return ""
}

// pathID parses the named path parameter as an unsigned id.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
