package services

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"cartify/internal/domain"
	"cartify/internal/gateway"
	applog "cartify/internal/log"
)

const (
	defaultSellerName = "Seller"
	maxMutations      = 100
)

// CategoryResolver maps between category ids and labels.
type CategoryResolver interface {
	Name(id int) (string, bool)
	ID(name string) (int, bool)
}

// CatalogService holds the loaded product collection. Writes go to the remote
// API first; the local collection changes only once the write is confirmed.
type CatalogService struct {
	API        ProductAPI
	Categories CategoryResolver

	notifier

	mu        sync.RWMutex
	products  []domain.Product
	lastErr   error
	loading   bool
	mutations []domain.Mutation
}

func NewCatalogService(api ProductAPI, cats CategoryResolver) *CatalogService {
	return &CatalogService{API: api, Categories: cats, products: []domain.Product{}}
}

// Refresh replaces the collection with the remote list for params. Failures
// leave an empty collection; the cause is kept for LastError.
func (s *CatalogService) Refresh(params map[string]string) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	recs, err := s.API.ListProducts(params)

	var products []domain.Product
	if err != nil {
		applog.Error(nil, "catalog.refresh", err, map[string]any{"params": params})
		products = []domain.Product{}
	} else {
		products = make([]domain.Product, 0, len(recs))
		for _, r := range recs {
			products = append(products, s.fromRecord(r))
		}
		applog.Info(nil, "catalog.refresh", map[string]any{"count": len(products)})
	}

	s.mu.Lock()
	s.products = products
	s.lastErr = err
	s.loading = false
	s.mu.Unlock()
	s.publish(Event{Topic: "catalog", Kind: "refresh"})
}

// Products returns a copy of the loaded collection.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// LastError returns the failure of the most recent refresh, or nil.
func (s *CatalogService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *CatalogService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Get returns the product with id, asking the remote API when it is not loaded.
func (s *CatalogService) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	for _, p := range s.products {
		if p.ID == id {
			s.mu.RUnlock()
			return p, nil
		}
	}
	s.mu.RUnlock()

	rec, err := s.API.GetProduct(id)
	if err != nil {
		if gateway.StatusOf(err) == http.StatusNotFound {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, errors.Wrapf(err, "get product %s", id)
	}
	return s.fromRecord(rec), nil
}

// BySeller returns the loaded products owned by sellerID.
func (s *CatalogService) BySeller(sellerID string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range s.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out
}

// Add creates draft remotely and prepends the confirmed product.
func (s *CatalogService) Add(draft domain.Product) (domain.Product, error) {
	if err := checkDraft(draft); err != nil {
		return domain.Product{}, err
	}
	m := s.begin(domain.MutationCreate, "")
	rec, err := s.API.CreateProduct(s.toPayload(draft))
	if err != nil {
		s.settle(m, "", err)
		return domain.Product{}, errors.Wrap(err, "create product")
	}

	p := normalize(draft)
	p.ID = rec.ID
	p.SellerID = rec.SellerID
	if rec.SellerName != "" {
		p.SellerName = rec.SellerName
	}
	if p.SellerName == "" {
		p.SellerName = defaultSellerName
	}
	if hasCategoryID(rec.CategoryID) {
		if name, ok := s.Categories.Name(*rec.CategoryID); ok {
			p.Category = name
		}
	}
	if p.Category == "" {
		p.Category = domain.Uncategorized
	}

	s.mu.Lock()
	s.products = append([]domain.Product{p}, s.products...)
	s.mu.Unlock()
	s.settle(m, p.ID, nil)
	applog.Audit(nil, "catalog.product.create", map[string]any{"id": p.ID, "seller": p.SellerID})
	return p, nil
}

// Update sends p to the remote API and replaces the loaded entry with the
// same id once confirmed.
func (s *CatalogService) Update(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		return domain.Product{}, errors.Wrap(ErrInvalidDraft, "missing id")
	}
	if err := checkDraft(p); err != nil {
		return domain.Product{}, err
	}
	m := s.begin(domain.MutationUpdate, p.ID)
	if _, err := s.API.UpdateProduct(p.ID, s.toPayload(p)); err != nil {
		s.settle(m, p.ID, err)
		return domain.Product{}, errors.Wrapf(err, "update product %s", p.ID)
	}

	p = normalize(p)
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
		}
	}
	s.mu.Unlock()
	s.settle(m, p.ID, nil)
	applog.Audit(nil, "catalog.product.update", map[string]any{"id": p.ID})
	return p, nil
}

// Remove deletes id remotely and drops it from the collection once confirmed.
func (s *CatalogService) Remove(id string) error {
	m := s.begin(domain.MutationDelete, id)
	if err := s.API.DeleteProduct(id); err != nil {
		s.settle(m, id, err)
		return errors.Wrapf(err, "delete product %s", id)
	}

	s.mu.Lock()
	kept := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()
	s.settle(m, id, nil)
	applog.Audit(nil, "catalog.product.delete", map[string]any{"id": id})
	return nil
}

// Mutations returns the recent write records, oldest first.
func (s *CatalogService) Mutations() []domain.Mutation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Mutation, len(s.mutations))
	copy(out, s.mutations)
	return out
}

func (s *CatalogService) begin(kind domain.MutationKind, productID string) string {
	m := domain.Mutation{
		ID:        uuid.NewString(),
		Kind:      kind,
		ProductID: productID,
		Status:    domain.MutationPending,
		StartedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.mutations = append(s.mutations, m)
	if len(s.mutations) > maxMutations {
		s.mutations = s.mutations[len(s.mutations)-maxMutations:]
	}
	s.mu.Unlock()
	s.publish(Event{Topic: "catalog", Kind: "mutation.pending", ID: m.ID})
	return m.ID
}

// settle marks mutation id applied, or failed when err is set.
func (s *CatalogService) settle(id, productID string, err error) {
	kind := "mutation.applied"
	s.mu.Lock()
	for i := range s.mutations {
		if s.mutations[i].ID != id {
			continue
		}
		if productID != "" {
			s.mutations[i].ProductID = productID
		}
		if err != nil {
			s.mutations[i].Status = domain.MutationFailed
			s.mutations[i].Err = err.Error()
			kind = "mutation.failed"
		} else {
			s.mutations[i].Status = domain.MutationApplied
		}
	}
	s.mu.Unlock()
	if err != nil {
		applog.Error(nil, "catalog."+kind, err, map[string]any{"mutation": id, "product": productID})
	}
	s.publish(Event{Topic: "catalog", Kind: kind, ID: id})
}

func (s *CatalogService) toPayload(p domain.Product) gateway.ProductPayload {
	out := gateway.ProductPayload{
		Name:         p.Name,
		Price:        p.Price,
		ComparePrice: p.ComparePrice,
		Image:        p.Image,
		Images:       p.Images,
		Description:  p.Description,
		Rating:       p.Rating,
		Reviews:      p.Reviews,
		Stock:        p.Stock,
		Trending:     p.Trending,
		Discount:     p.Discount,
		Tags:         p.Tags,
		DeliveryTime: p.DeliveryTime,
	}
	if id, ok := s.Categories.ID(p.Category); ok {
		out.CategoryID = &id
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

func (s *CatalogService) fromRecord(r gateway.ProductRecord) domain.Product {
	p := domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Category:     domain.Uncategorized,
		Price:        r.Price,
		ComparePrice: r.ComparePrice,
		Image:        r.Image,
		Images:       r.Images,
		Description:  r.Description,
		Rating:       r.Rating,
		Reviews:      r.Reviews,
		Stock:        r.Stock,
		SellerID:     r.SellerID,
		SellerName:   r.SellerName,
		Discount:     r.Discount,
		Tags:         r.Tags,
		DeliveryTime: r.DeliveryTime,
	}
	switch {
	case hasCategoryID(r.CategoryID):
		if name, ok := s.Categories.Name(*r.CategoryID); ok {
			p.Category = name
		}
	case r.Category != "":
		p.Category = r.Category
	}
	if r.Trending != nil {
		p.Trending = *r.Trending
	}
	if p.SellerName == "" {
		p.SellerName = defaultSellerName
	}
	return normalize(p)
}

// hasCategoryID reports whether id names a category; 0 means none.
func hasCategoryID(id *int) bool { return id != nil && *id != 0 }

func normalize(p domain.Product) domain.Product {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

func checkDraft(p domain.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.Wrap(ErrInvalidDraft, "name is required")
	case p.Price < 0:
		return errors.Wrap(ErrInvalidDraft, "price must not be negative")
	case p.Stock < 0:
		return errors.Wrap(ErrInvalidDraft, "stock must not be negative")
	case p.Rating < 0 || p.Rating > 5:
		return errors.Wrap(ErrInvalidDraft, "rating must be between 0 and 5")
	}
	return nil
}
