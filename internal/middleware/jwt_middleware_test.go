package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/handlers/response"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/services"
)

type stubValidator map[string]*services.TokenClaims

func (s stubValidator) ValidateToken(token string) (*services.TokenClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

func newTestApp() *fiber.App {
	validator := stubValidator{
		"admin-token": {UserID: "u-admin", Role: "Admin"},
		"user-token":  {UserID: "u-user", Role: "User"},
	}
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(logs.Discard())})
	whoami := func(c *fiber.Ctx) error { return c.SendString(UserID(c)) }

	app.Get("/private", AuthRequired(validator), whoami)
	app.Get("/admin", AuthRequired(validator), RequireRole("Admin"), whoami)
	app.Get("/public", OptionalAuth(validator), whoami)
	return app
}

func get(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp()

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/private", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/private", "Token user-token").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/private", "Bearer nope").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, "/private", "Bearer user-token").StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := newTestApp()

	assert.Equal(t, http.StatusForbidden, get(t, app, "/admin", "Bearer user-token").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, "/admin", "Bearer admin-token").StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	app := newTestApp()

	assert.Equal(t, http.StatusOK, get(t, app, "/public", "").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, "/public", "Bearer nope").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, "/public", "Bearer user-token").StatusCode)
}
