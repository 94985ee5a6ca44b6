package services_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/apitest"
	"cartify/internal/domain"
	"cartify/internal/gateway"
	"cartify/internal/services"
)

func TestQuoteShipping(t *testing.T) {
	q := services.QuoteFor(decimal.NewFromInt(500))
	assert.Equal(t, "49", q.Shipping.String())
	assert.Equal(t, "549", q.Total.String())

	q = services.QuoteFor(decimal.RequireFromString("500.01"))
	assert.True(t, q.Shipping.IsZero())
	assert.Equal(t, int64(500), q.Points)

	q = services.QuoteFor(decimal.RequireFromString("75.5"))
	assert.Equal(t, "124.5", q.Total.String())
	assert.Equal(t, int64(124), q.Points)
}

type orderEnv struct {
	be     *apitest.Backend
	auth   *services.AuthService
	cart   *services.CartService
	orders *services.OrderService
}

func newOrderEnv(t *testing.T) orderEnv {
	t.Helper()
	be := apitest.New(t)
	seedShopper(be)
	be.AddProduct(gateway.ProductRecord{ID: "milk", Name: "Milk", Price: 30})
	be.AddProduct(gateway.ProductRecord{ID: "bread", Name: "Bread", Price: 45})
	api := gateway.New(be.URL(), 0)
	auth := services.NewAuthService(api, newCache(t))
	cart := services.NewCartService()
	return orderEnv{be: be, auth: auth, cart: cart, orders: services.NewOrderService(api, cart, auth)}
}

func TestPlaceOrderClearsCartAndCreditsRewards(t *testing.T) {
	env := newOrderEnv(t)
	_, err := env.auth.Login("asha@cartify.test", "Secret1!")
	require.NoError(t, err)

	env.cart.Add(milk)
	env.cart.Add(milk)
	env.cart.Add(bread)
	assert.Equal(t, "154", env.orders.Quote().Total.String())

	o, err := env.orders.Place("12 MG Road, Pune")
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "12 MG Road, Pune", o.ShippingAddress)
	assert.Equal(t, []domain.OrderItem{{ProductID: "milk", Quantity: 2}, {ProductID: "bread", Quantity: 1}}, o.Items)
	assert.False(t, o.CreatedAt.IsZero())

	assert.Empty(t, env.cart.Lines())
	u, _ := env.auth.CurrentUser()
	assert.Equal(t, 10+154, u.Rewards)

	mine, err := env.orders.Mine()
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newOrderEnv(t)
	_, err := env.orders.Place("anywhere")
	assert.True(t, errors.Is(err, services.ErrEmptyCart))
	assert.Empty(t, env.be.Orders())
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	env := newOrderEnv(t)
	env.cart.Add(milk)

	// not signed in: the backend rejects the order
	_, err := env.orders.Place("anywhere")
	require.Error(t, err)
	assert.Equal(t, 401, gateway.StatusOf(err))
	assert.Len(t, env.cart.Lines(), 1)

	_, err = env.auth.Login("asha@cartify.test", "Secret1!")
	require.NoError(t, err)
	env.be.SetDown(true)
	_, err = env.orders.Place("anywhere")
	require.Error(t, err)
	assert.Len(t, env.cart.Lines(), 1)
	u, _ := env.auth.CurrentUser()
	assert.Equal(t, 10, u.Rewards)
}
