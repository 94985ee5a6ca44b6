package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"cartify/internal/domain"
	applog "cartify/internal/log"
	"cartify/internal/services"
	"cartify/internal/validate"
)

type SellerHandler struct {
	Catalog *services.CatalogService
}

// GET /seller/products
func (h *SellerHandler) List(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	products := h.Catalog.BySeller(u.ID)
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// POST /seller/products
func (h *SellerHandler) Create(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	draft, err := parseDraft(c, domain.Product{SellerID: u.ID, SellerName: u.Name})
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	p, err := h.Catalog.Add(draft)
	if err != nil {
		return fail(c, "seller.product.create", err)
	}
	applog.Audit(c, "seller.product.create", map[string]any{"product": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

// owned loads product :id and checks the signed-in seller owns it.
func (h *SellerHandler) owned(c *fiber.Ctx) (domain.Product, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.Product{}, services.ErrNotFound
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if u, _ := currentUser(c); p.SellerID != u.ID {
		applog.Security(c, "access.denied.product", map[string]any{"product": id, "user": u.ID})
		return domain.Product{}, fiber.ErrForbidden
	}
	return p, nil
}

// PUT /seller/products/:id
func (h *SellerHandler) Update(c *fiber.Ctx) error {
	cur, err := h.owned(c)
	if err != nil {
		return ownedFail(c, "seller.product.update", err)
	}
	next, err := parseDraft(c, cur)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	p, err := h.Catalog.Update(next)
	if err != nil {
		return fail(c, "seller.product.update", err)
	}
	applog.Audit(c, "seller.product.update", map[string]any{"product": p.ID})
	return c.JSON(fiber.Map{"product": p})
}

// DELETE /seller/products/:id
func (h *SellerHandler) Delete(c *fiber.Ctx) error {
	p, err := h.owned(c)
	if err != nil {
		return ownedFail(c, "seller.product.delete", err)
	}
	if err := h.Catalog.Remove(p.ID); err != nil {
		return fail(c, "seller.product.delete", err)
	}
	applog.Audit(c, "seller.product.delete", map[string]any{"product": p.ID})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /seller/mutations
func (h *SellerHandler) Mutations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"mutations": h.Catalog.Mutations()})
}

func ownedFail(c *fiber.Ctx, action string, err error) error {
	if errors.Is(err, fiber.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
	return fail(c, action, err)
}

// parseDraft overlays the submitted form fields on base. Fields absent from
// the form keep their base value.
func parseDraft(c *fiber.Ctx, base domain.Product) (domain.Product, error) {
	p := base
	var ok bool
	if v := c.FormValue("name"); v != "" {
		if p.Name, ok = validate.Name(v); !ok {
			return p, errors.New("invalid name")
		}
	}
	if v := c.FormValue("category"); v != "" {
		if p.Category, ok = validate.CategoryName(v); !ok {
			return p, errors.New("invalid category")
		}
	}
	if v := c.FormValue("price"); v != "" {
		if p.Price, ok = validate.Money(v); !ok {
			return p, errors.New("invalid price")
		}
	}
	if v := c.FormValue("comparePrice"); v != "" {
		f, ok := validate.Money(v)
		if !ok {
			return p, errors.New("invalid comparePrice")
		}
		p.ComparePrice = &f
	}
	if v := c.FormValue("stock"); v != "" {
		if p.Stock, ok = validate.Count(v); !ok {
			return p, errors.New("invalid stock")
		}
	}
	if v := c.FormValue("discount"); v != "" {
		n, ok := validate.Count(v)
		if !ok || n > 100 {
			return p, errors.New("invalid discount")
		}
		p.Discount = &n
	}
	if v := c.FormValue("deliveryTime"); v != "" {
		n, ok := validate.Count(v)
		if !ok {
			return p, errors.New("invalid deliveryTime")
		}
		p.DeliveryTime = &n
	}
	if v := c.FormValue("description"); v != "" {
		if p.Description, ok = validate.Text(v, 2000); !ok {
			return p, errors.New("description is too long")
		}
	}
	if v := c.FormValue("image"); v != "" {
		p.Image = strings.TrimSpace(v)
	}
	if v := c.FormValue("images"); v != "" {
		p.Images = splitList(v)
	}
	if v := c.FormValue("tags"); v != "" {
		p.Tags = splitList(v)
	}
	if v := c.FormValue("trending"); v != "" {
		p.Trending = v == "on" || v == "true" || v == "1"
	}
	if p.Name == "" {
		return p, errors.New("name is required")
	}
	return p, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
