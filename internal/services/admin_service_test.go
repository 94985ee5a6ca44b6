package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/apitest"
	"cartify/internal/domain"
	"cartify/internal/gateway"
	"cartify/internal/repos"
	"cartify/internal/services"
)

func newAdmin(t *testing.T, be *apitest.Backend, cache services.Cache) *services.AdminService {
	t.Helper()
	api := gateway.New(be.URL(), 0)
	return services.NewAdminService(api, api, services.NewCategoryService(api, cache), cache)
}

var sellerApp = domain.Application{
	Name: "Kiran", Email: "kiran@cartify.test", Phone: "9876543210",
	Role: domain.RoleSeller, Details: "Handmade soaps", ExtraInfo: "GST 22AAAAA0000A1Z5",
}

func TestSubmitApplicationIsPendingAndCached(t *testing.T) {
	be := apitest.New(t)
	cache := newCache(t)
	admin := newAdmin(t, be, cache)

	a, err := admin.Submit(sellerApp)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.WithinDuration(t, time.Now(), a.Date, time.Minute)
	assert.Equal(t, 1, admin.PendingCount())

	other := newAdmin(t, be, cache)
	require.NoError(t, other.LoadCached())
	apps := other.Applications()
	require.Len(t, apps, 1)
	assert.Equal(t, a.ID, apps[0].ID)
	assert.Equal(t, "Handmade soaps", apps[0].Details)
}

func TestApplicationStatusNeverReverses(t *testing.T) {
	be := apitest.New(t)
	admin := newAdmin(t, be, newCache(t))
	a, err := admin.Submit(sellerApp)
	require.NoError(t, err)

	_, err = admin.SetStatus(a.ID, domain.StatusPending)
	assert.True(t, errors.Is(err, services.ErrInvalidTransition))

	got, err := admin.SetStatus(a.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Zero(t, admin.PendingCount())

	patches := countMethod(be, "PATCH")
	_, err = admin.SetStatus(a.ID, domain.StatusRejected)
	assert.True(t, errors.Is(err, services.ErrInvalidTransition))
	assert.Equal(t, domain.StatusApproved, admin.Applications()[0].Status)
	assert.Equal(t, patches, countMethod(be, "PATCH"), "rejected transitions never reach the API")

	_, err = admin.SetStatus("nope", domain.StatusApproved)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func countMethod(be *apitest.Backend, method string) int {
	n := 0
	for _, r := range be.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func TestRefreshApplications(t *testing.T) {
	be := apitest.New(t)
	cache := newCache(t)
	admin := newAdmin(t, be, cache)
	first, err := admin.Submit(sellerApp)
	require.NoError(t, err)
	second := sellerApp
	second.Role = domain.RoleDelivery
	second.Email = "dev@cartify.test"
	_, err = admin.Submit(second)
	require.NoError(t, err)
	_, err = admin.SetStatus(first.ID, domain.StatusRejected)
	require.NoError(t, err)

	require.NoError(t, admin.Refresh("pending"))
	require.Len(t, admin.Applications(), 1)
	assert.Equal(t, "pending", be.LastRequest().URL.Query().Get("status"))

	var cached []domain.Application
	_, err = cache.Load(repos.KeyApplications, &cached)
	require.NoError(t, err)
	assert.Len(t, cached, 2, "filtered lists do not replace the cache")

	require.NoError(t, admin.Refresh(""))
	assert.Len(t, admin.Applications(), 2)
	assert.Equal(t, 1, admin.PendingCount())

	be.SetDown(true)
	err = admin.Refresh("")
	require.Error(t, err)
	assert.Len(t, admin.Applications(), 2)
}

func TestCategoriesAddRemove(t *testing.T) {
	be := apitest.New(t)
	be.AddCategory(1, "Electronics")
	be.AddCategory(2, "Books")
	admin := newAdmin(t, be, newCache(t))

	assert.Equal(t, []string{"Electronics", "Books"}, admin.Categories())

	posts := countMethod(be, "POST")
	require.NoError(t, admin.AddCategory("Books"))
	assert.Equal(t, posts, countMethod(be, "POST"))

	require.NoError(t, admin.AddCategory("Toys & Games"))
	assert.Equal(t, []string{"Electronics", "Books", "Toys & Games"}, admin.Categories())

	deletes := countMethod(be, "DELETE")
	require.NoError(t, admin.RemoveCategory("Gardening"))
	assert.Equal(t, deletes, countMethod(be, "DELETE"))

	require.NoError(t, admin.RemoveCategory("Electronics"))
	assert.Equal(t, "/admin/categories/1", be.LastRequest().URL.Path)
	assert.Equal(t, []string{"Books", "Toys & Games"}, admin.Categories())
}

func TestCategoriesFallBack(t *testing.T) {
	be := apitest.New(t)
	be.SetDown(true)
	cache := newCache(t)

	assert.Equal(t, services.DefaultCategories, newAdmin(t, be, cache).Categories())

	require.NoError(t, cache.Save(repos.KeyCategories, []string{"Books", "Fashion"}))
	assert.Equal(t, []string{"Books", "Fashion"}, newAdmin(t, be, cache).Categories())
}
