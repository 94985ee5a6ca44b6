package services

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"cartify/internal/domain"
	"cartify/internal/gateway"
	applog "cartify/internal/log"
)

var (
	FreeShippingOver = decimal.NewFromInt(500)
	shippingCharge   = decimal.NewFromInt(49)
)

// Quote is the checkout summary for the current cart.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Points   int64           `json:"points"`
}

// QuoteFor prices a cart subtotal: shipping is free above 500, otherwise 49.
func QuoteFor(subtotal decimal.Decimal) Quote {
	ship := shippingCharge
	if subtotal.GreaterThan(FreeShippingOver) {
		ship = decimal.Zero
	}
	total := subtotal.Add(ship)
	return Quote{Subtotal: subtotal, Shipping: ship, Total: total, Points: total.Floor().IntPart()}
}

type OrderService struct {
	API  OrderAPI
	Cart *CartService
	Auth *AuthService

	mu sync.Mutex
}

func NewOrderService(api OrderAPI, cart *CartService, auth *AuthService) *OrderService {
	return &OrderService{API: api, Cart: cart, Auth: auth}
}

// Quote prices the current cart.
func (s *OrderService) Quote() Quote {
	if s.Cart.Count() == 0 {
		return Quote{Subtotal: decimal.Zero, Shipping: decimal.Zero, Total: decimal.Zero}
	}
	return QuoteFor(s.Cart.Total())
}

// Place orders the cart lines. The cart is cleared and reward points are
// credited only after the remote API accepts the order.
func (s *OrderService) Place(shippingAddress string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.Cart.Lines()
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	q := s.Quote()

	items := make([]gateway.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, gateway.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	rec, err := s.API.CreateOrder(items, shippingAddress)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "place order")
	}
	s.Cart.Clear()

	if s.Auth != nil {
		if _, err := s.Auth.CreditRewards(int(q.Points)); err != nil && !errors.Is(err, ErrNotSignedIn) {
			applog.Error(nil, "order.rewards", err, map[string]any{"order": rec.ID})
		}
	}
	o := orderFromRecord(rec)
	applog.Audit(nil, "order.place", map[string]any{
		"order": o.ID,
		"items": len(items),
		"total": q.Total.String(),
	})
	return o, nil
}

// Mine lists the signed-in user's orders.
func (s *OrderService) Mine() ([]domain.Order, error) {
	recs, err := s.API.MyOrders()
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, orderFromRecord(r))
	}
	return out, nil
}

func orderFromRecord(r gateway.OrderRecord) domain.Order {
	o := domain.Order{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		Total:           r.Total,
		Status:          r.Status,
		PaymentStatus:   r.PaymentStatus,
		CreatedAt:       parseDate(r.CreatedAt),
		ShippingAddress: r.ShippingAddress,
	}
	for _, it := range r.Items {
		o.Items = append(o.Items, domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if r.DeliveryPartnerID != nil {
		o.DeliveryPartnerID = *r.DeliveryPartnerID
	}
	if r.TrackingNumber != nil {
		o.TrackingNumber = *r.TrackingNumber
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return o
}
