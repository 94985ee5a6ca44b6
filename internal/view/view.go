// Package view derives the ordered product list shown on the catalog page
// from the loaded catalog and the shopper's filter and sort selection.
package view

import (
	"sort"
	"strconv"
	"strings"

	"cartify/internal/domain"
)

const (
	// AllCategories disables the category filter.
	AllCategories = "all"
	// DefaultMaxPrice is the top of the storefront's price slider.
	DefaultMaxPrice = 200000
	// FastDeliveryMinutes is the delivery time the fast-delivery filter keeps.
	FastDeliveryMinutes = 10
)

type SortMode string

const (
	Featured  SortMode = "featured"
	PriceLow  SortMode = "price-low"
	PriceHigh SortMode = "price-high"
	Rating    SortMode = "rating"
	Trending  SortMode = "trending"
)

// Selection is the shopper's current filter and sort choice. The zero value
// matches almost nothing; start from DefaultSelection.
type Selection struct {
	Query        string   `json:"search,omitempty"`
	Category     string   `json:"category"`
	FastDelivery bool     `json:"fastDelivery"`
	MaxPrice     float64  `json:"maxPrice"`
	Sort         SortMode `json:"sort"`
}

func DefaultSelection() Selection {
	return Selection{Category: AllCategories, MaxPrice: DefaultMaxPrice, Sort: Featured}
}

// Apply runs search, category, fast delivery and price filters in that order,
// then the sort mode. Trending mode narrows the filtered set to trending
// products instead of reordering it. The input slice is never modified.
func Apply(products []domain.Product, sel Selection) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	q := strings.ToLower(sel.Query)
	for _, p := range products {
		if q != "" && !matches(p, q) {
			continue
		}
		if sel.Category != AllCategories && p.Category != sel.Category {
			continue
		}
		if sel.FastDelivery && !p.DeliversIn(FastDeliveryMinutes) {
			continue
		}
		if p.Price > sel.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch sel.Sort {
	case PriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case PriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case Rating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case Trending:
		trending := out[:0]
		for _, p := range out {
			if p.Trending {
				trending = append(trending, p)
			}
		}
		out = trending
	}
	return out
}

func matches(p domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

// Categories returns the category facet: AllCategories followed by each
// distinct label in first-seen order.
func Categories(products []domain.Product) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, p := range products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// ParseSelection reads a selection from catalog page query parameters.
// Unknown or malformed values fall back to the defaults.
func ParseSelection(params map[string]string) Selection {
	sel := DefaultSelection()
	sel.Query = strings.TrimSpace(params["search"])
	if c := params["category"]; c != "" {
		sel.Category = c
	}
	sel.FastDelivery = params["delivery"] == "10min"
	if m, err := strconv.ParseFloat(params["maxPrice"], 64); err == nil && m >= 0 {
		sel.MaxPrice = m
	}
	switch mode := SortMode(params["sort"]); mode {
	case PriceLow, PriceHigh, Rating, Trending:
		sel.Sort = mode
	}
	return sel
}

// Params encodes sel as query parameters, leaving out defaults.
func (s Selection) Params() map[string]string {
	out := map[string]string{}
	if s.Query != "" {
		out["search"] = s.Query
	}
	if s.Category != "" && s.Category != AllCategories {
		out["category"] = s.Category
	}
	if s.FastDelivery {
		out["delivery"] = "10min"
	}
	if s.Sort != "" && s.Sort != Featured {
		out["sort"] = string(s.Sort)
	}
	if s.MaxPrice != DefaultMaxPrice {
		out["maxPrice"] = strconv.FormatFloat(s.MaxPrice, 'f', -1, 64)
	}
	return out
}
