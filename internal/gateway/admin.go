package gateway

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ApplicationPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Details   string `json:"details"`
	ExtraInfo string `json:"extraInfo"`
}

type ApplicationRecord struct {
	ApplicationPayload
	ID     string `json:"id"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type CategoryRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c *Client) SubmitApplication(p ApplicationPayload) (ApplicationRecord, error) {
	var out ApplicationRecord
	err := c.do(fiber.MethodPost, "/admin/applications", p, &out)
	return out, err
}

// ListApplications filters by status when it is not empty.
func (c *Client) ListApplications(status string) ([]ApplicationRecord, error) {
	path := "/admin/applications"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []ApplicationRecord
	if err := c.do(fiber.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetApplicationStatus(id, status string) (ApplicationRecord, error) {
	var out ApplicationRecord
	err := c.do(fiber.MethodPatch, "/admin/applications/"+url.PathEscape(id),
		map[string]string{"status": status}, &out)
	return out, err
}

func (c *Client) ListCategories() ([]CategoryRecord, error) {
	var out []CategoryRecord
	if err := c.do(fiber.MethodGet, "/admin/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddCategory(name string) (CategoryRecord, error) {
	var out CategoryRecord
	err := c.do(fiber.MethodPost, "/admin/categories", map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) RemoveCategory(id int) error {
	return c.do(fiber.MethodDelete, "/admin/categories/"+strconv.Itoa(id), nil, nil)
}
