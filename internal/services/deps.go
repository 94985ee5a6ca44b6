package services

import "cartify/internal/gateway"

// Cache is the local durable mirror (see repos.KVRepo).
type Cache interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
	Delete(key string) error
}

type ProductAPI interface {
	ListProducts(params map[string]string) ([]gateway.ProductRecord, error)
	GetProduct(id string) (gateway.ProductRecord, error)
	CreateProduct(p gateway.ProductPayload) (gateway.ProductRecord, error)
	UpdateProduct(id string, p gateway.ProductPayload) (gateway.ProductRecord, error)
	DeleteProduct(id string) error
}

type CategoryAPI interface {
	ListCategories() ([]gateway.CategoryRecord, error)
	AddCategory(name string) (gateway.CategoryRecord, error)
	RemoveCategory(id int) error
}

type ApplicationAPI interface {
	SubmitApplication(p gateway.ApplicationPayload) (gateway.ApplicationRecord, error)
	ListApplications(status string) ([]gateway.ApplicationRecord, error)
	SetApplicationStatus(id, status string) (gateway.ApplicationRecord, error)
}

type AuthAPI interface {
	Register(name, email, password, role string) (gateway.Token, error)
	Login(email, password string) (gateway.Token, error)
	Me() (gateway.UserRecord, error)
	SetToken(t string)
}

type OrderAPI interface {
	CreateOrder(items []gateway.OrderItem, shippingAddress string) (gateway.OrderRecord, error)
	MyOrders() ([]gateway.OrderRecord, error)
}
