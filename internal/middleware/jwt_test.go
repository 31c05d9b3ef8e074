package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/flight-reservation-api/internal/utils"
)

const testSecret = "unit-test-secret"

func echoWithProtected(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}, mw...)
	return e
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, "User", 15)
	require.NoError(t, err)

	e := echoWithProtected(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"User"`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	e := echoWithProtected(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("different-secret", 42, "User", 15)
	require.NoError(t, err)

	e := echoWithProtected(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	e := echoWithProtected(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, "User", -1)
	require.NoError(t, err)

	e := echoWithProtected(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
