package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")
	if !ok || pass == "" {
		log.Security(c, "auth.login.fail", map[string]any{"email": c.FormValue("email"), "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	u, err := h.Auth.Login(email, pass)
	if err != nil {
		return fail(c, "auth.login", err)
	}
	log.Audit(c, "auth.login.success", map[string]any{"user": u.ID})
	return c.JSON(fiber.Map{"user": u})
}

// POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter your name"})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a valid email"})
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password needs 8+ characters with upper and lower case, a digit and a symbol",
		})
	}
	role, ok := validate.Role(c.FormValue("role"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "role", "value": c.FormValue("role")})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}
	u, err := h.Auth.Register(name, strings.ToLower(email), pass, role)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	log.Audit(c, "auth.register.success", map[string]any{"user": u.ID, "role": u.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u})
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Auth.Logout()
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	return c.JSON(fiber.Map{"user": u})
}
