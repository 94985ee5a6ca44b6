package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /checkout
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	addr, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a shipping address"})
	}
	q := h.Orders.Quote()
	o, err := h.Orders.Place(addr)
	if err != nil {
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": q.Total.String()})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": o, "quote": q})
}

// GET /orders
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.Orders.Mine()
	if err != nil {
		return fail(c, "orders.history", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}
