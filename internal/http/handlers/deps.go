package handlers

import "cartify/internal/services"

type Deps struct {
	Session *services.AuthService

	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AuthHandler    *AuthHandler
	ApplyHandler   *ApplyHandler
	SellerHandler  *SellerHandler
	AdminHandler   *AdminHandler
}

func NewDeps(svc *services.Services) *Deps {
	return &Deps{
		Session:        svc.Auth,
		CatalogHandler: &CatalogHandler{Catalog: svc.Catalog, Cart: svc.Cart},
		CartHandler:    &CartHandler{Cart: svc.Cart, Catalog: svc.Catalog, Orders: svc.Orders},
		OrderHandler:   &OrderHandler{Orders: svc.Orders},
		AuthHandler:    &AuthHandler{Auth: svc.Auth},
		ApplyHandler:   &ApplyHandler{Admin: svc.Admin},
		SellerHandler:  &SellerHandler{Catalog: svc.Catalog},
		AdminHandler:   &AdminHandler{Admin: svc.Admin},
	}
}
