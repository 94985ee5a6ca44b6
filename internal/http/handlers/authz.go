package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cartify/internal/domain"
	applog "cartify/internal/log"
	"cartify/internal/services"
)

// AttachUser exposes the signed-in user to handlers and templates.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u, ok := auth.CurrentUser(); ok {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) (domain.User, bool) {
	u, ok := c.Locals("user").(domain.User)
	return u, ok
}

// RequireUser enforces that a user is signed in.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := currentUser(c); !ok {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please sign in"})
		}
		return c.Next()
	}
}

// RequireRole enforces that the signed-in user has one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := currentUser(c)
		if !ok {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please sign in"})
		}
		for _, r := range roles {
			if u.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"user": u.ID, "role": u.Role, "want": roles})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
}
