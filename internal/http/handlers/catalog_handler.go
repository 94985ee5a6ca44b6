package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"cartify/internal/domain"
	applog "cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
	"cartify/internal/view"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Cart    *services.CartService
}

// selection reads the view selection from the query string. An invalid
// search term is reported rather than dropped.
func selection(c *fiber.Ctx) (view.Selection, bool) {
	sel := view.ParseSelection(c.Queries())
	if strings.TrimSpace(c.Query("search")) == "" {
		sel.Query = ""
		return sel, true
	}
	q, ok := validate.Q(sel.Query)
	if !ok {
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, "validation.fail", map[string]any{"field": "search", "value": c.Query("search")})
		return sel, false
	}
	sel.Query = q
	return sel, true
}

func encodeParams(p map[string]string) string {
	v := url.Values{}
	for k, s := range p {
		v.Set(k, s)
	}
	return v.Encode()
}

// GET /products
func (h *CatalogHandler) Page(c *fiber.Ctx) error {
	all := h.Catalog.Products()
	data := fiber.Map{
		"Categories": view.Categories(all),
		"CartCount":  h.Cart.Count(),
		"Loading":    h.Catalog.Loading(),
	}
	if err := h.Catalog.LastError(); err != nil {
		data["Err"] = "We could not load products right now."
	}
	sel, ok := selection(c)
	data["Selection"] = sel
	if !ok {
		data["Products"] = []domain.Product{}
		data["Count"] = 0
		data["Err"] = "Enter a valid search"
		return c.Status(fiber.StatusBadRequest).Render("products", data)
	}
	products := view.Apply(all, sel)
	data["Products"] = products
	data["Count"] = len(products)
	data["Query"] = encodeParams(sel.Params())
	return render(c, "products", data)
}

// GET /api/v1/products
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	sel, ok := selection(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search"})
	}
	all := h.Catalog.Products()
	products := view.Apply(all, sel)
	out := fiber.Map{
		"products":   products,
		"count":      len(products),
		"categories": view.Categories(all),
		"selection":  sel,
	}
	if err := h.Catalog.LastError(); err != nil {
		out["error"] = err.Error()
	}
	return c.JSON(out)
}

// POST /api/v1/products/refresh
// Query parameters are forwarded to the backend unchanged.
func (h *CatalogHandler) Refresh(c *fiber.Ctx) error {
	params := c.Queries()
	h.Catalog.Refresh(params)
	out := fiber.Map{"count": len(h.Catalog.Products())}
	if err := h.Catalog.LastError(); err != nil {
		out["error"] = err.Error()
		applog.Info(c, "catalog.refresh.empty", map[string]any{"params": params})
	}
	return c.JSON(out)
}

// GET /product/:id
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "product.detail", err)
	}
	return c.JSON(fiber.Map{"product": p, "availability": services.Availability(p)})
}
