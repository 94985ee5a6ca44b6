package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"cartify/internal/domain"
)

// Routes registers the storefront on app.
func Routes(app *fiber.App, d *Deps) {
	app.Use(AttachUser(d.Session))

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/products") })
	app.Get("/products", d.CatalogHandler.Page)
	app.Get("/product/:id", d.CatalogHandler.Detail)

	api := app.Group("/api/v1")
	api.Get("/products", d.CatalogHandler.List)
	api.Post("/products/refresh", limiter.New(limiter.Config{Max: 10, Expiration: time.Minute}), d.CatalogHandler.Refresh)

	app.Get("/cart", d.CartHandler.View)
	app.Post("/cart", d.CartHandler.Add)
	app.Post("/cart/qty", d.CartHandler.SetQty)
	app.Post("/cart/remove", d.CartHandler.Remove)
	app.Post("/checkout", RequireUser(), d.OrderHandler.Place)
	app.Get("/orders", RequireUser(), d.OrderHandler.Mine)

	authLimiter := limiter.New(limiter.Config{Max: 10, Expiration: time.Minute})
	app.Post("/login", authLimiter, d.AuthHandler.Login)
	app.Post("/register", authLimiter, d.AuthHandler.Register)
	app.Post("/logout", d.AuthHandler.Logout)
	app.Get("/me", RequireUser(), d.AuthHandler.Me)

	app.Post("/apply", limiter.New(limiter.Config{Max: 5, Expiration: time.Minute}), d.ApplyHandler.Submit)

	seller := app.Group("/seller", RequireRole(domain.RoleSeller))
	seller.Get("/products", d.SellerHandler.List)
	seller.Post("/products", d.SellerHandler.Create)
	seller.Put("/products/:id", d.SellerHandler.Update)
	seller.Delete("/products/:id", d.SellerHandler.Delete)
	seller.Get("/mutations", d.SellerHandler.Mutations)

	admin := app.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.Get("/applications", d.AdminHandler.Applications)
	admin.Post("/applications/:id/status", d.AdminHandler.SetStatus)
	admin.Get("/categories", d.AdminHandler.Categories)
	admin.Post("/categories", d.AdminHandler.AddCategory)
	admin.Delete("/categories/:name", d.AdminHandler.RemoveCategory)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
}
