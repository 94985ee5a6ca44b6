package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"cartify/internal/gateway"
	applog "cartify/internal/log"
)

// Services is the set of state objects for one storefront session.
type Services struct {
	Categories *CategoryService
	Catalog    *CatalogService
	Cart       *CartService
	Auth       *AuthService
	Admin      *AdminService
	Orders     *OrderService
}

// New wires every state object to the gateway client and the cache.
func New(api *gateway.Client, cache Cache) *Services {
	cats := NewCategoryService(api, cache)
	cart := NewCartService()
	auth := NewAuthService(api, cache)
	catalog := NewCatalogService(api, cats)
	admin := NewAdminService(api, api, cats, cache)

	// Product labels come from the category map; reload them when it changes.
	admin.Subscribe(ObserverFunc(func(e Event) {
		if e.Topic == "categories" {
			catalog.Refresh(nil)
		}
	}))

	return &Services{
		Categories: cats,
		Catalog:    catalog,
		Cart:       cart,
		Auth:       auth,
		Admin:      admin,
		Orders:     NewOrderService(api, cart, auth),
	}
}

// Start restores the session and loads categories concurrently, then loads
// the catalog. A failed category load is logged; the cached map is used.
func (s *Services) Start(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(s.Auth.Restore)
	g.Go(func() error {
		if err := s.Categories.Load(); err != nil {
			applog.Error(nil, "startup.categories", err, nil)
		}
		return nil
	})
	g.Go(s.Admin.LoadCached)
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Catalog.Refresh(nil)
	applog.Info(nil, "startup.done", map[string]any{
		"products":   len(s.Catalog.Products()),
		"categories": len(s.Categories.All()),
	})
	return nil
}
