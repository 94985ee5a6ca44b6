package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
)

type CartHandler struct {
	Cart    *services.CartService
	Catalog *services.CatalogService
	Orders  *services.OrderService
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	q := h.Orders.Quote()
	data := fiber.Map{
		"Lines":    h.Cart.Lines(),
		"Count":    h.Cart.Count(),
		"Subtotal": q.Subtotal.StringFixed(2),
		"Shipping": q.Shipping.StringFixed(2),
		"Total":    q.Total.StringFixed(2),
		"Points":   q.Points,
	}
	if q.Shipping.IsPositive() {
		data["FreeShippingGap"] = services.FreeShippingOver.Sub(q.Subtotal).StringFixed(2)
	}
	return render(c, "cart", data)
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	for i := 0; i < qty; i++ {
		h.Cart.Add(p)
	}
	applog.Info(c, "cart.add", map[string]any{"product": id, "qty": qty})
	return c.Redirect("/cart")
}

// POST /cart/qty
func (h *CartHandler) SetQty(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty, ok := validate.Count(c.FormValue("qty"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid quantity")
	}
	h.Cart.SetQty(id, qty)
	return c.Redirect("/cart")
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	h.Cart.Remove(id)
	return c.Redirect("/cart")
}
