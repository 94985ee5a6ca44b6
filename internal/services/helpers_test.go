package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cartify/internal/gateway"
	"cartify/internal/repos"
)

func newCache(t *testing.T) *repos.KVRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewKVRepo(db)
}

type staticCategories map[int]string

func (m staticCategories) Name(id int) (string, bool) {
	n, ok := m[id]
	return n, ok
}

func (m staticCategories) ID(name string) (int, bool) {
	for id, n := range m {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// fakeProducts is a scripted ProductAPI.
type fakeProducts struct {
	list    []gateway.ProductRecord
	listErr error
	params  map[string]string

	created   gateway.ProductRecord
	createErr error
	updateErr error
	deleteErr error
	get       map[string]gateway.ProductRecord
	payloads  []gateway.ProductPayload

	during func()
}

func (f *fakeProducts) hook() {
	if f.during != nil {
		f.during()
	}
}

func (f *fakeProducts) ListProducts(params map[string]string) ([]gateway.ProductRecord, error) {
	f.params = params
	f.hook()
	return f.list, f.listErr
}

func (f *fakeProducts) GetProduct(id string) (gateway.ProductRecord, error) {
	if r, ok := f.get[id]; ok {
		return r, nil
	}
	return gateway.ProductRecord{}, &gateway.TransportError{Method: "GET", Path: "/products/" + id, Status: 404, Message: "Product not found"}
}

func (f *fakeProducts) CreateProduct(p gateway.ProductPayload) (gateway.ProductRecord, error) {
	f.payloads = append(f.payloads, p)
	f.hook()
	return f.created, f.createErr
}

func (f *fakeProducts) UpdateProduct(id string, p gateway.ProductPayload) (gateway.ProductRecord, error) {
	f.payloads = append(f.payloads, p)
	f.hook()
	return gateway.ProductRecord{ID: id}, f.updateErr
}

func (f *fakeProducts) DeleteProduct(id string) error {
	f.hook()
	return f.deleteErr
}

func intp(v int) *int { return &v }
func boolp(v bool) *bool { return &v }
