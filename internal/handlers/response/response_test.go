package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/logs"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logs.Discard())})
	app.Get("/ok", func(c *fiber.Ctx) error { return OK(c, fiber.Map{"answer": 42}) })
	app.Get("/app-error", func(c *fiber.Ctx) error { return apperrors.ErrCartEmpty })
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return errors.Join(errors.New("context"), apperrors.ErrOrderNotFound.WithDetails("o-1"))
	})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database is on fire") })
	return app
}

func decode(t *testing.T, app *fiber.App, path string) (int, Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSuccessEnvelope(t *testing.T) {
	status, body := decode(t, newTestApp(), "/ok")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "Success", body.Message)
	assert.Equal(t, map[string]any{"answer": float64(42)}, body.Data)
	assert.Nil(t, body.Error)
}

func TestErrorHandler(t *testing.T) {
	app := newTestApp()

	status, body := decode(t, app, "/app-error")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, "CART_EMPTY", body.Error.Code)

	status, body = decode(t, app, "/wrapped")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ORDER_NOT_FOUND", body.Error.Code)
	assert.Equal(t, "o-1", body.Error.Details)

	status, body = decode(t, app, "/boom")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Message, "fire")

	status, body = decode(t, app, "/missing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ROUTE_NOT_FOUND", body.Error.Code)
}
