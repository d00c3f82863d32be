// Package filter derives product subsets for collection pages. Every
// function is pure: inputs are never modified and relative order is kept.
package filter

import (
	"strings"

	"axm-storefront/internal/model"
)

// All is the category key that matches everything.
const All = "all"

// categoryAliases maps virtual categories to the raw categories they cover.
var categoryAliases = map[string][]string{
	"accessories": {"hats", "wallet", "slippers", "accessories"},
}

// filterBadges maps collection filter keys to badges.
var filterBadges = map[string]model.Badge{
	"new-arrivals": model.BadgeNew,
	"best-sellers": model.BadgeBestSeller,
	"sale":         model.BadgeSale,
	"vault":        model.BadgeVault,
	"limited":      model.BadgeLimited,
}

// Query combines the collection filters. Zero values match everything.
type Query struct {
	Category string
	Filter   string
	MaxPrice *model.Money
}

// ByCategory keeps products in category. Matching is case-insensitive.
// "accessories" covers hats, wallets and slippers; "vault" also matches
// anything badged VAULT. An empty category or "all" returns the input.
func ByCategory(products []model.Product, category string) []model.Product {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" || key == All {
		return products
	}

	accept := map[string]bool{key: true}
	for _, c := range categoryAliases[key] {
		accept[c] = true
	}

	return keep(products, func(p *model.Product) bool {
		if accept[strings.ToLower(p.Category)] {
			return true
		}
		return key == "vault" && p.HasBadge(model.BadgeVault)
	})
}

// BadgeForFilter maps a filter key such as "best-sellers" to its badge.
func BadgeForFilter(key string) (model.Badge, bool) {
	b, ok := filterBadges[strings.ToLower(strings.TrimSpace(key))]
	return b, ok
}

// ByFilter keeps products carrying the badge named by key. Unknown keys
// return the input.
func ByFilter(products []model.Product, key string) []model.Product {
	b, ok := BadgeForFilter(key)
	if !ok {
		return products
	}
	return ByBadge(products, b)
}

// ByBadge keeps products carrying b.
func ByBadge(products []model.Product, b model.Badge) []model.Product {
	return keep(products, func(p *model.Product) bool { return p.HasBadge(b) })
}

// ByPriceRange keeps products priced within [min, max]. A nil bound is open.
func ByPriceRange(products []model.Product, min, max *model.Money) []model.Product {
	if min == nil && max == nil {
		return products
	}
	return keep(products, func(p *model.Product) bool {
		if min != nil && p.Price < *min {
			return false
		}
		return max == nil || p.Price <= *max
	})
}

// Apply runs the category, filter and price filters in sequence.
func Apply(products []model.Product, q Query) []model.Product {
	out := ByCategory(products, q.Category)
	out = ByFilter(out, q.Filter)
	return ByPriceRange(out, nil, q.MaxPrice)
}

// Categories lists distinct categories in first-seen order.
func Categories(products []model.Product) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

func keep(products []model.Product, match func(*model.Product) bool) []model.Product {
	out := make([]model.Product, 0, len(products))
	for i := range products {
		if match(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}
