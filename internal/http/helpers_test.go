package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"

	"cartify/internal/apitest"
	"cartify/internal/domain"
	"cartify/internal/gateway"
	"cartify/internal/http/handlers"
	"cartify/internal/repos"
	"cartify/internal/services"
)

type storefront struct {
	app *fiber.App
	be  *apitest.Backend
	svc *services.Services
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func seedStore(be *apitest.Backend) {
	be.AddCategory(1, "Electronics")
	be.AddCategory(2, "Groceries")
	be.AddProduct(gateway.ProductRecord{ID: "tv", Name: "Smart TV", CategoryID: intp(1), Price: 42000, Rating: 4.4, Stock: 10, SellerID: "u-seller", SellerName: "Ravi"})
	be.AddProduct(gateway.ProductRecord{ID: "milk", Name: "Milk", CategoryID: intp(2), Price: 30, Rating: 4.8, Stock: 3, SellerID: "u-other", Trending: boolp(true), DeliveryTime: intp(10)})
	be.AddProduct(gateway.ProductRecord{ID: "bread", Name: "Bread", CategoryID: intp(2), Price: 45, Rating: 4.4, SellerID: "u-other"})

	be.AddAccount(gateway.UserRecord{ID: "u-shopper", Name: "Asha", Email: "asha@cartify.test", Role: domain.RoleCustomer}, "Secret1!")
	be.AddAccount(gateway.UserRecord{ID: "u-seller", Name: "Ravi", Email: "ravi@cartify.test", Role: domain.RoleSeller}, "Secret1!")
	be.AddAccount(gateway.UserRecord{ID: "u-admin", Name: "Meera", Email: "meera@cartify.test", Role: domain.RoleAdmin}, "Secret1!")
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	be := apitest.New(t)
	seedStore(be)

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := services.New(gateway.New(be.URL(), 0), repos.NewKVRepo(db))
	require.NoError(t, svc.Categories.Load())
	svc.Catalog.Refresh(nil)

	app := fiber.New(fiber.Config{
		Views:        html.New("../../web/templates", ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	handlers.Routes(app, handlers.NewDeps(svc))
	return &storefront{app: app, be: be, svc: svc}
}

func (s *storefront) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *storefront) get(t *testing.T, path string) *http.Response {
	t.Helper()
	return s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func httptestPost(path string) *http.Request {
	return httptest.NewRequest(http.MethodPost, path, nil)
}

func (s *storefront) form(t *testing.T, method, path string, v url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *storefront) login(t *testing.T, email string) {
	t.Helper()
	resp := s.form(t, http.MethodPost, "/login", url.Values{"email": {email}, "password": {"Secret1!"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
