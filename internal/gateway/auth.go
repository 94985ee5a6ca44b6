package gateway

import "github.com/gofiber/fiber/v2"

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Avatar  string `json:"avatar,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Rewards *int   `json:"rewards,omitempty"`
}

func (c *Client) Register(name, email, password, role string) (Token, error) {
	var out Token
	err := c.do(fiber.MethodPost, "/auth/register", map[string]string{
		"name": name, "email": email, "password": password, "role": role,
	}, &out)
	return out, err
}

func (c *Client) Login(email, password string) (Token, error) {
	var out Token
	err := c.do(fiber.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	return out, err
}

func (c *Client) Me() (UserRecord, error) {
	var out UserRecord
	err := c.do(fiber.MethodGet, "/auth/me", nil, &out)
	return out, err
}
