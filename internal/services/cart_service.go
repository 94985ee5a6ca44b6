package services

import (
	"sync"

	"github.com/shopspring/decimal"

	"cartify/internal/domain"
)

// CartService holds the session's cart lines. It never talks to the remote API.
type CartService struct {
	notifier

	mu    sync.RWMutex
	lines []domain.CartLine
}

func NewCartService() *CartService {
	return &CartService{}
}

// Add puts one unit of p in the cart.
func (s *CartService) Add(p domain.Product) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, domain.CartLine{Product: p, Quantity: 1})
	}
	s.mu.Unlock()
	s.publish(Event{Topic: "cart", Kind: "add", ID: p.ID})
}

// SetQty sets the quantity of a line; below 1 the line is removed.
func (s *CartService) SetQty(productID string, qty int) {
	if qty < 1 {
		s.Remove(productID)
		return
	}
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines[i].Quantity = qty
		}
	}
	s.mu.Unlock()
	s.publish(Event{Topic: "cart", Kind: "qty", ID: productID})
}

func (s *CartService) Remove(productID string) {
	s.mu.Lock()
	kept := s.lines[:0:0]
	for _, l := range s.lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	s.mu.Unlock()
	s.publish(Event{Topic: "cart", Kind: "remove", ID: productID})
}

func (s *CartService) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.publish(Event{Topic: "cart", Kind: "clear"})
}

// Lines returns a copy of the cart lines in insertion order.
func (s *CartService) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is the exact sum of price times quantity.
func (s *CartService) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Count is the number of units in the cart.
func (s *CartService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}
