package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cartify/internal/domain"
	applog "cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
)

type ApplyHandler struct {
	Admin *services.AdminService
}

// POST /apply
func (h *ApplyHandler) Submit(c *fiber.Ctx) error {
	var a domain.Application
	var ok bool
	bad := func(field string) error {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
	}
	if a.Name, ok = validate.Name(c.FormValue("name")); !ok {
		return bad("name")
	}
	if a.Email, ok = validate.Email(c.FormValue("email")); !ok {
		return bad("email")
	}
	if a.Phone, ok = validate.Phone(c.FormValue("phone")); !ok {
		return bad("phone")
	}
	if a.Role, ok = validate.AppRole(c.FormValue("role")); !ok {
		return bad("role")
	}
	if a.Details, ok = validate.Text(c.FormValue("details"), 1000); !ok {
		return bad("details")
	}
	if a.ExtraInfo, ok = validate.Text(c.FormValue("extraInfo"), 1000); !ok {
		return bad("extraInfo")
	}
	out, err := h.Admin.Submit(a)
	if err != nil {
		return fail(c, "application.submit", err)
	}
	applog.Audit(c, "application.submit", map[string]any{"id": out.ID, "role": out.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"application": out})
}
