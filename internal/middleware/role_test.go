package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func requestWithRole(t *testing.T, role interface{}, allowed ...string) int {
	t.Helper()
	e := echo.New()
	setRole := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role != nil {
				c.Set("role", role)
			}
			return next(c)
		}
	}
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, setRole, RequireRole(allowed...))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireRoleAllowed(t *testing.T) {
	assert.Equal(t, http.StatusOK, requestWithRole(t, "Admin", "Admin"))
}

func TestRequireRoleCaseInsensitive(t *testing.T) {
	assert.Equal(t, http.StatusOK, requestWithRole(t, "ADMIN", "Admin"))
	assert.Equal(t, http.StatusOK, requestWithRole(t, "admin", "Admin"))
}

func TestRequireRoleForbidden(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, requestWithRole(t, "User", "Admin"))
}

func TestRequireRoleMissing(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, requestWithRole(t, nil, "Admin"))
}

func TestRequireRoleNonString(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, requestWithRole(t, 17, "Admin"))
}
