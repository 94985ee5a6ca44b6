package handlers_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/http/handlers"
	applog "cartify/internal/log"
)

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{
		Views:        html.New("../../web/templates", ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	var logs bytes.Buffer
	old := applog.Writer()
	applog.SetOutput(&logs)
	defer applog.SetOutput(old)

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "Something went wrong")
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, logs.String(), "db timeout")
	assert.Contains(t, logs.String(), `"action":"server.error"`)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	s := newStorefront(t)
	resp := s.get(t, "/nowhere")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.True(t, strings.Contains(body(t, resp), "Page not found"))
	assert.Equal(t, fiber.StatusOK, s.get(t, "/healthz").StatusCode)
}

func TestDeniedAccessIsLogged(t *testing.T) {
	s := newStorefront(t)
	var logs bytes.Buffer
	old := applog.Writer()
	applog.SetOutput(&logs)
	defer applog.SetOutput(old)

	s.get(t, "/admin/categories")
	assert.Contains(t, logs.String(), `"action":"access.denied.anonymous"`)
	assert.Contains(t, logs.String(), `"kind":"security"`)
	assert.Contains(t, logs.String(), `"path":"/admin/categories"`)
}
