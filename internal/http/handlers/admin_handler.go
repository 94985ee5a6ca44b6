package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"cartify/internal/domain"
	applog "cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
)

type AdminHandler struct {
	Admin *services.AdminService
}

// GET /admin/applications
func (h *AdminHandler) Applications(c *fiber.Ctx) error {
	status := c.Query("status")
	switch domain.ApplicationStatus(status) {
	case "", domain.StatusPending, domain.StatusApproved, domain.StatusRejected:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}
	out := fiber.Map{}
	if err := h.Admin.Refresh(status); err != nil {
		applog.Error(c, "admin.applications.refresh.fail", err, nil)
		out["stale"] = true
	}
	out["applications"] = h.Admin.Applications()
	out["pending"] = h.Admin.PendingCount()
	return c.JSON(out)
}

// POST /admin/applications/:id/status
func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	status, ok := validate.AppStatus(c.FormValue("status"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be approved or rejected"})
	}
	a, err := h.Admin.SetStatus(id, status)
	if errors.Is(err, services.ErrNotFound) {
		// not loaded yet
		if rerr := h.Admin.Refresh(""); rerr == nil {
			a, err = h.Admin.SetStatus(id, status)
		}
	}
	if err != nil {
		return fail(c, "admin.applications.status", err)
	}
	applog.Audit(c, "admin.applications.status", map[string]any{"id": id, "status": string(status)})
	return c.JSON(fiber.Map{"application": a, "pending": h.Admin.PendingCount()})
}

// GET /admin/categories
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.Admin.Categories()})
}

// POST /admin/categories
func (h *AdminHandler) AddCategory(c *fiber.Ctx) error {
	name, ok := validate.CategoryName(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category name"})
	}
	if err := h.Admin.AddCategory(name); err != nil {
		return fail(c, "admin.categories.add", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"categories": h.Admin.Categories()})
}

// DELETE /admin/categories/:name
func (h *AdminHandler) RemoveCategory(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category name"})
	}
	name, ok := validate.CategoryName(raw)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category name"})
	}
	if err := h.Admin.RemoveCategory(name); err != nil {
		return fail(c, "admin.categories.remove", err)
	}
	return c.JSON(fiber.Map{"categories": h.Admin.Categories()})
}
