package gateway

import "github.com/gofiber/fiber/v2"

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type OrderRecord struct {
	ID                string      `json:"id"`
	CustomerID        string      `json:"customerId"`
	Items             []OrderItem `json:"items"`
	Total             float64     `json:"total"`
	Status            string      `json:"status"`
	PaymentStatus     string      `json:"paymentStatus"`
	DeliveryPartnerID *string     `json:"deliveryPartnerId"`
	CreatedAt         string      `json:"createdAt"`
	ShippingAddress   string      `json:"shippingAddress"`
	TrackingNumber    *string     `json:"trackingNumber"`
}

func (c *Client) CreateOrder(items []OrderItem, shippingAddress string) (OrderRecord, error) {
	var out OrderRecord
	err := c.do(fiber.MethodPost, "/orders", map[string]any{
		"items":           items,
		"shippingAddress": shippingAddress,
	}, &out)
	return out, err
}

func (c *Client) MyOrders() ([]OrderRecord, error) {
	var out []OrderRecord
	if err := c.do(fiber.MethodGet, "/orders/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
