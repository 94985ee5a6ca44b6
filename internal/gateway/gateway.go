// Package gateway is the storefront's only network boundary: a JSON client
// for the remote commerce API.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// TransportError is a network failure or a non-2xx response. Message holds the
// response body text when the server sent one.
type TransportError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodingError is a response body that could not be decoded.
type DecodingError struct {
	Path string
	Body string
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}

type Client struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// New returns a client for baseURL. A zero timeout waits for the server indefinitely.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (c *Client) SetToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(method, path string, in, out any) error {
	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if tok := c.Token(); tok != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			fiber.ReleaseAgent(a)
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		a.Body(b)
	}
	if c.timeout > 0 {
		a.Timeout(c.timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return &TransportError{Method: method, Path: path, Err: err}
	}

	// Bytes releases the agent.
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return &TransportError{Method: method, Path: path, Err: errs[0]}
	}
	if code < 200 || code > 299 {
		return &TransportError{
			Method:  method,
			Path:    path,
			Status:  code,
			Message: strings.TrimSpace(string(body)),
		}
	}
	if out == nil {
		return nil
	}
	if len(body) == 0 {
		return &DecodingError{Path: path, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodingError{Path: path, Body: string(body), Err: err}
	}
	return nil
}

// encodeQuery renders params in key order so requests are reproducible.
func encodeQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := url.Values{}
	for _, k := range keys {
		v.Add(k, params[k])
	}
	return "?" + v.Encode()
}
