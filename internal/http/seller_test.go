package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/domain"
)

type productResponse struct {
	Product domain.Product `json:"product"`
	Error   string         `json:"error"`
}

func TestSellerRoutesRequireSellerRole(t *testing.T) {
	s := newStorefront(t)
	assert.Equal(t, http.StatusUnauthorized, s.get(t, "/seller/products").StatusCode)

	s.login(t, "asha@cartify.test")
	assert.Equal(t, http.StatusForbidden, s.get(t, "/seller/products").StatusCode)
}

func TestSellerManagesOwnProducts(t *testing.T) {
	s := newStorefront(t)
	s.login(t, "ravi@cartify.test")

	var list struct {
		Products []domain.Product `json:"products"`
	}
	decode(t, s.get(t, "/seller/products"), &list)
	assert.Equal(t, []string{"tv"}, ids(list.Products))

	resp := s.form(t, http.MethodPost, "/seller/products", url.Values{
		"name": {"Kettle"}, "category": {"Electronics"}, "price": {"1299"},
		"stock": {"8"}, "tags": {"kitchen, steel"}, "deliveryTime": {"10"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created productResponse
	decode(t, resp, &created)
	assert.NotEmpty(t, created.Product.ID)
	assert.Equal(t, "u-seller", created.Product.SellerID)
	assert.Equal(t, "Electronics", created.Product.Category)
	assert.Equal(t, []string{"kitchen", "steel"}, created.Product.Tags)
	assert.Equal(t, created.Product.ID, s.svc.Catalog.Products()[0].ID)

	resp = s.form(t, http.MethodPut, "/seller/products/"+created.Product.ID, url.Values{"price": {"999"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated productResponse
	decode(t, resp, &updated)
	assert.Equal(t, 999.0, updated.Product.Price)
	assert.Equal(t, "Kettle", updated.Product.Name)

	assert.Equal(t, http.StatusForbidden, s.form(t, http.MethodPut, "/seller/products/milk", url.Values{"price": {"1"}}).StatusCode)
	assert.Equal(t, http.StatusForbidden, s.form(t, http.MethodDelete, "/seller/products/milk", nil).StatusCode)

	require.Equal(t, http.StatusOK, s.form(t, http.MethodDelete, "/seller/products/"+created.Product.ID, nil).StatusCode)
	list.Products = nil
	decode(t, s.get(t, "/seller/products"), &list)
	assert.Equal(t, []string{"tv"}, ids(list.Products))

	var ms struct {
		Mutations []domain.Mutation `json:"mutations"`
	}
	decode(t, s.get(t, "/seller/mutations"), &ms)
	require.Len(t, ms.Mutations, 3)
	for _, m := range ms.Mutations {
		assert.Equal(t, domain.MutationApplied, m.Status)
	}
	assert.Equal(t, domain.MutationDelete, ms.Mutations[2].Kind)
}

func TestSellerCreateValidation(t *testing.T) {
	s := newStorefront(t)
	s.login(t, "ravi@cartify.test")

	for _, v := range []url.Values{
		{"price": {"10"}},
		{"name": {"Kettle"}, "price": {"-3"}},
		{"name": {"Kettle"}, "discount": {"150"}},
		{"name": {"Kettle"}, "category": {"<b>"}},
	} {
		resp := s.form(t, http.MethodPost, "/seller/products", v)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, v.Encode())
	}
	assert.Empty(t, s.svc.Catalog.Mutations())
}

func TestSellerCreateUpstreamFailure(t *testing.T) {
	s := newStorefront(t)
	s.login(t, "ravi@cartify.test")
	s.be.SetDown(true)

	resp := s.form(t, http.MethodPost, "/seller/products", url.Values{"name": {"Kettle"}, "price": {"10"}})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	ms := s.svc.Catalog.Mutations()
	require.Len(t, ms, 1)
	assert.Equal(t, domain.MutationFailed, ms[0].Status)
	assert.Len(t, s.svc.Catalog.Products(), 3)
}
