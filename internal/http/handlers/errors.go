package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"cartify/internal/gateway"
	applog "cartify/internal/log"
	"cartify/internal/services"
)

// fail maps a service error to a JSON response. Remote 4xx messages are
// passed through; anything else from the backend becomes 502.
func fail(c *fiber.Ctx, action string, err error) error {
	status, msg := classify(err)
	if status >= 500 {
		applog.Error(c, action+".fail", err, nil)
	} else {
		applog.Security(c, action+".fail", map[string]any{"status": status, "reason": msg})
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, services.ErrNotSignedIn):
		return fiber.StatusUnauthorized, "Please sign in"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrInvalidDraft):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusConflict, "Application has already been decided"
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest, "Your cart is empty"
	}

	var te *gateway.TransportError
	if errors.As(err, &te) {
		switch {
		case te.Status == http.StatusUnauthorized, te.Status == http.StatusForbidden,
			te.Status == http.StatusNotFound, te.Status == http.StatusBadRequest,
			te.Status == http.StatusConflict, te.Status == http.StatusUnprocessableEntity:
			return te.Status, te.Error()
		}
		return fiber.StatusBadGateway, "The store service is unavailable. Please try again."
	}
	var de *gateway.DecodingError
	if errors.As(err, &de) {
		return fiber.StatusBadGateway, "The store service sent an unexpected response."
	}
	return fiber.StatusInternalServerError, "Something went wrong. Please try again."
}

// ErrorHandler is the fiber error handler: it logs and shows a friendly
// message without internal details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < 500 {
			msg = fe.Message
		}
	}
	applog.Error(c, "server.error", err, map[string]any{"status": code})
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
