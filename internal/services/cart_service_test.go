package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/domain"
	"cartify/internal/services"
)

var (
	milk  = domain.Product{ID: "milk", Name: "Milk", Price: 30}
	bread = domain.Product{ID: "bread", Name: "Bread", Price: 45}
	dime  = domain.Product{ID: "dime", Name: "Dime", Price: 0.1}
)

func TestCartAddIncrements(t *testing.T) {
	c := services.NewCartService()
	c.Add(milk)
	c.Add(bread)
	c.Add(milk)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "milk", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, "105", c.Total().String())
}

func TestCartSetQtyBelowOneRemoves(t *testing.T) {
	c := services.NewCartService()
	c.Add(milk)
	c.Add(bread)

	c.SetQty("milk", 4)
	assert.Equal(t, "165", c.Total().String())

	c.SetQty("milk", 0)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "bread", lines[0].Product.ID)

	c.SetQty("unknown", 3)
	assert.Len(t, c.Lines(), 1)
}

func TestCartRemoveAndClear(t *testing.T) {
	c := services.NewCartService()
	assert.True(t, c.Total().IsZero())
	c.Add(milk)
	c.Add(bread)
	c.Remove("milk")
	assert.Equal(t, 1, c.Count())
	c.Clear()
	assert.Empty(t, c.Lines())
	assert.True(t, c.Total().IsZero())
	assert.Zero(t, c.Count())
}

func TestCartTotalIsExact(t *testing.T) {
	c := services.NewCartService()
	c.Add(dime)
	c.SetQty("dime", 3)
	assert.Equal(t, "0.3", c.Total().String())
}

func TestCartLinesAreCopies(t *testing.T) {
	c := services.NewCartService()
	c.Add(milk)
	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestCartSubscribers(t *testing.T) {
	c := services.NewCartService()
	var got []services.Event
	cancel := c.Subscribe(services.ObserverFunc(func(e services.Event) { got = append(got, e) }))
	c.Add(milk)
	c.SetQty("milk", 2)
	c.Remove("milk")
	cancel()
	c.Clear()

	require.Len(t, got, 3)
	assert.Equal(t, services.Event{Topic: "cart", Kind: "add", ID: "milk"}, got[0])
	assert.Equal(t, "qty", got[1].Kind)
	assert.Equal(t, "remove", got[2].Kind)
}

func TestAvailability(t *testing.T) {
	cases := []struct {
		stock  int
		status string
	}{{0, "OUT_OF_STOCK"}, {-2, "OUT_OF_STOCK"}, {1, "LOW_STOCK"}, {4, "LOW_STOCK"}, {5, "IN_STOCK"}}
	for _, tc := range cases {
		a := services.Availability(domain.Product{Stock: tc.stock})
		assert.Equal(t, tc.status, a.Status, "stock %d", tc.stock)
		assert.GreaterOrEqual(t, a.Qty, 0)
	}

	p := domain.Product{Stock: 3}
	assert.Equal(t, 1, services.ClampQty(p, 0))
	assert.Equal(t, 2, services.ClampQty(p, 2))
	assert.Equal(t, 3, services.ClampQty(p, 9))
	assert.Equal(t, 0, services.ClampQty(domain.Product{}, 2))
}
