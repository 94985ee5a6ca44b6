// Package apitest runs an in-memory stand-in for the remote commerce API so
// gateway, service and handler tests can exercise real HTTP round trips.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"cartify/internal/gateway"
)

type account struct {
	user     gateway.UserRecord
	password string
}

// Backend is a fake remote API. All fields are guarded by mu.
type Backend struct {
	Server *httptest.Server

	mu           sync.Mutex
	down         bool
	malformed    bool
	nextID       int
	products     []gateway.ProductRecord
	categories   []gateway.CategoryRecord
	applications []gateway.ApplicationRecord
	orders       []gateway.OrderRecord
	accounts     map[string]*account // by email
	tokens       map[string]string   // token -> email
	requests     []*http.Request
}

// New starts a backend; it is closed when the test ends.
func New(t interface{ Cleanup(func()) }) *Backend {
	b := &Backend{
		nextID:   100,
		accounts: map[string]*account{},
		tokens:   map[string]string{},
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string { return b.Server.URL }

// SetDown makes every route answer 503.
func (b *Backend) SetDown(down bool) {
	b.mu.Lock()
	b.down = down
	b.mu.Unlock()
}

// SetMalformed makes every route answer 200 with a body that is not JSON.
func (b *Backend) SetMalformed(m bool) {
	b.mu.Lock()
	b.malformed = m
	b.mu.Unlock()
}

func (b *Backend) AddCategory(id int, name string) {
	b.mu.Lock()
	b.categories = append(b.categories, gateway.CategoryRecord{ID: id, Name: name})
	b.mu.Unlock()
}

func (b *Backend) AddProduct(p gateway.ProductRecord) {
	b.mu.Lock()
	b.products = append(b.products, p)
	b.mu.Unlock()
}

func (b *Backend) Products() []gateway.ProductRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]gateway.ProductRecord(nil), b.products...)
}

func (b *Backend) Orders() []gateway.OrderRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]gateway.OrderRecord(nil), b.orders...)
}

// AddAccount registers a user that can log in with password.
func (b *Backend) AddAccount(u gateway.UserRecord, password string) {
	b.mu.Lock()
	b.accounts[u.Email] = &account{user: u, password: password}
	b.mu.Unlock()
}

// Requests returns every request seen so far.
func (b *Backend) Requests() []*http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*http.Request(nil), b.requests...)
}

// LastRequest returns the most recent request, or nil.
func (b *Backend) LastRequest() *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return nil
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", b.me).Methods(http.MethodGet)

	r.HandleFunc("/products", b.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", b.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", b.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", b.updateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", b.deleteProduct).Methods(http.MethodDelete)

	r.HandleFunc("/orders", b.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/me", b.myOrders).Methods(http.MethodGet)

	r.HandleFunc("/admin/applications", b.submitApplication).Methods(http.MethodPost)
	r.HandleFunc("/admin/applications", b.listApplications).Methods(http.MethodGet)
	r.HandleFunc("/admin/applications/{id}", b.patchApplication).Methods(http.MethodPatch)
	r.HandleFunc("/admin/categories", b.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/admin/categories", b.addCategory).Methods(http.MethodPost)
	r.HandleFunc("/admin/categories/{id}", b.removeCategory).Methods(http.MethodDelete)
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Clone(r.Context()))
		down, malformed := b.down, b.malformed
		b.mu.Unlock()
		if down {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		if malformed {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not json"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// caller resolves the bearer token; the lock must be held.
func (b *Backend) caller(r *http.Request) *account {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return nil
	}
	return b.accounts[b.tokens[tok]]
}

func (b *Backend) issue(email string) gateway.Token {
	b.nextID++
	tok := fmt.Sprintf("tok-%d", b.nextID)
	b.tokens[tok] = email
	return gateway.Token{AccessToken: tok, TokenType: "bearer"}
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct{ Name, Email, Password, Role string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.accounts[in.Email]; ok {
		http.Error(w, "Email already registered", http.StatusBadRequest)
		return
	}
	b.nextID++
	b.accounts[in.Email] = &account{
		user:     gateway.UserRecord{ID: "u-" + strconv.Itoa(b.nextID), Name: in.Name, Email: in.Email, Role: in.Role},
		password: in.Password,
	}
	writeJSON(w, http.StatusOK, b.issue(in.Email))
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[in.Email]
	if !ok || acc.password != in.Password {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, b.issue(in.Email))
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.caller(r)
	if acc == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) listProducts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []gateway.ProductRecord{}
	search := strings.ToLower(r.URL.Query().Get("search"))
	for _, p := range b.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) find(id string) int {
	for i, p := range b.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) getProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(mux.Vars(r)["id"])
	if i < 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b.products[i])
}

func fromPayload(id string, in gateway.ProductPayload, seller gateway.UserRecord) gateway.ProductRecord {
	trending := in.Trending
	return gateway.ProductRecord{
		ID: id, Name: in.Name, CategoryID: in.CategoryID, Price: in.Price,
		ComparePrice: in.ComparePrice, Image: in.Image, Images: in.Images,
		Description: in.Description, Rating: in.Rating, Reviews: in.Reviews,
		Stock: in.Stock, SellerID: seller.ID, SellerName: seller.Name,
		Trending: &trending, Discount: in.Discount, Tags: in.Tags, DeliveryTime: in.DeliveryTime,
	}
}

func (b *Backend) createProduct(w http.ResponseWriter, r *http.Request) {
	var in gateway.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.caller(r)
	if acc == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	b.nextID++
	p := fromPayload("p-"+strconv.Itoa(b.nextID), in, acc.user)
	b.products = append(b.products, p)
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in gateway.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.caller(r)
	if acc == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	i := b.find(mux.Vars(r)["id"])
	if i < 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	b.products[i] = fromPayload(b.products[i].ID, in, acc.user)
	writeJSON(w, http.StatusOK, b.products[i])
}

func (b *Backend) deleteProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(mux.Vars(r)["id"])
	if i < 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	b.products = append(b.products[:i], b.products[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items           []gateway.OrderItem `json:"items"`
		ShippingAddress string              `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.caller(r)
	if acc == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	total := 0.0
	for _, it := range in.Items {
		i := b.find(it.ProductID)
		if i < 0 {
			http.Error(w, "Invalid product ids", http.StatusBadRequest)
			return
		}
		total += b.products[i].Price * float64(it.Quantity)
	}
	b.nextID++
	o := gateway.OrderRecord{
		ID: "o-" + strconv.Itoa(b.nextID), CustomerID: acc.user.ID, Items: in.Items,
		Total: total, Status: "pending", PaymentStatus: "paid",
		CreatedAt: time.Now().UTC().Format(time.RFC3339), ShippingAddress: in.ShippingAddress,
	}
	b.orders = append(b.orders, o)
	writeJSON(w, http.StatusOK, o)
}

func (b *Backend) myOrders(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.caller(r)
	if acc == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	out := []gateway.OrderRecord{}
	for _, o := range b.orders {
		if o.CustomerID == acc.user.ID {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) submitApplication(w http.ResponseWriter, r *http.Request) {
	var in gateway.ApplicationPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	a := gateway.ApplicationRecord{
		ApplicationPayload: in,
		ID:                 "app-" + strconv.Itoa(b.nextID),
		Status:             "pending",
		Date:               time.Now().UTC().Format(time.RFC3339),
	}
	b.applications = append(b.applications, a)
	writeJSON(w, http.StatusOK, a)
}

func (b *Backend) listApplications(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := r.URL.Query().Get("status")
	out := []gateway.ApplicationRecord{}
	for _, a := range b.applications {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) patchApplication(w http.ResponseWriter, r *http.Request) {
	var in struct{ Status string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i := range b.applications {
		if b.applications[i].ID == id {
			b.applications[i].Status = in.Status
			writeJSON(w, http.StatusOK, b.applications[i])
			return
		}
	}
	http.Error(w, "Application not found", http.StatusNotFound)
}

func (b *Backend) listCategories(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]gateway.CategoryRecord{}, b.categories...)
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) addCategory(w http.ResponseWriter, r *http.Request) {
	var in struct{ Name string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	c := gateway.CategoryRecord{ID: b.nextID, Name: in.Name}
	b.categories = append(b.categories, c)
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) removeCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "bad id", http.StatusUnprocessableEntity)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.categories {
		if c.ID == id {
			b.categories = append(b.categories[:i], b.categories[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
	}
	http.Error(w, "Category not found", http.StatusNotFound)
}
