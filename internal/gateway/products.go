package gateway

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// ProductRecord is a product as the remote API returns it. The category is
// usually only an id.
type ProductRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CategoryID   *int     `json:"categoryId,omitempty"`
	Category     string   `json:"category,omitempty"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"comparePrice,omitempty"`
	Image        string   `json:"image"`
	Images       []string `json:"images,omitempty"`
	Description  string   `json:"description"`
	Rating       float64  `json:"rating"`
	Reviews      int      `json:"reviews"`
	Stock        int      `json:"stock"`
	SellerID     string   `json:"sellerId"`
	SellerName   string   `json:"sellerName,omitempty"`
	Trending     *bool    `json:"trending,omitempty"`
	Discount     *int     `json:"discount,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	DeliveryTime *int     `json:"deliveryTime,omitempty"`
}

// ProductPayload is the body of product create and update calls.
type ProductPayload struct {
	Name         string   `json:"name"`
	CategoryID   *int     `json:"categoryId,omitempty"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"comparePrice,omitempty"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
	Description  string   `json:"description"`
	Rating       float64  `json:"rating"`
	Reviews      int      `json:"reviews"`
	Stock        int      `json:"stock"`
	Trending     bool     `json:"trending"`
	Discount     *int     `json:"discount,omitempty"`
	Tags         []string `json:"tags"`
	DeliveryTime *int     `json:"deliveryTime,omitempty"`
}

// ListProducts passes params through to the query string unchanged.
func (c *Client) ListProducts(params map[string]string) ([]ProductRecord, error) {
	var out []ProductRecord
	if err := c.do(fiber.MethodGet, "/products"+encodeQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(id string) (ProductRecord, error) {
	var out ProductRecord
	err := c.do(fiber.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateProduct(p ProductPayload) (ProductRecord, error) {
	var out ProductRecord
	err := c.do(fiber.MethodPost, "/products", p, &out)
	return out, err
}

func (c *Client) UpdateProduct(id string, p ProductPayload) (ProductRecord, error) {
	var out ProductRecord
	err := c.do(fiber.MethodPut, "/products/"+url.PathEscape(id), p, &out)
	return out, err
}

func (c *Client) DeleteProduct(id string) error {
	return c.do(fiber.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}
