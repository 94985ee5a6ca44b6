package services

import "cartify/internal/domain"

const lowStockAt = 5

// Availability converts a product's stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func Availability(p domain.Product) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= lowStockAt:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	qty := p.Stock
	if qty < 0 {
		qty = 0
	}
	return domain.Availability{Status: status, Qty: qty}
}

// ClampQty bounds a requested quantity to [1, stock]. Products without stock yield 0.
func ClampQty(p domain.Product, qty int) int {
	if p.Stock <= 0 {
		return 0
	}
	if qty < 1 {
		return 1
	}
	if qty > p.Stock {
		return p.Stock
	}
	return qty
}
