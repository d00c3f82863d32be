package model

import "strings"

// NormalizeConfig carries the defaults applied while normalizing products
// from any source tier.
type NormalizeConfig struct {
	DefaultCategory  string // used when a source omits the category
	Currency         string // used when a source omits the currency
	PlaceholderImage string // used when a source has no images
}

// DefaultNormalizeConfig returns the storefront defaults.
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		DefaultCategory:  "General",
		Currency:         DefaultCurrency,
		PlaceholderImage: PlaceholderImage,
	}
}

// Normalize fills defaults on p and reports whether it is usable. Products
// without an id or name, or with a negative price, are rejected rather than
// passed through malformed.
func Normalize(p Product, cfg NormalizeConfig) (Product, bool) {
	p.ID = ProductID(strings.TrimSpace(string(p.ID)))
	p.Name = strings.TrimSpace(p.Name)
	if p.ID == "" || p.Name == "" || p.Price < 0 {
		return Product{}, false
	}

	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = cfg.DefaultCategory
	}
	if p.Currency == "" {
		p.Currency = cfg.Currency
	}
	if p.CompareAtPrice != nil && *p.CompareAtPrice <= 0 {
		p.CompareAtPrice = nil
	}

	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		images = append(images, cfg.PlaceholderImage)
	}
	p.Images = images

	badges := make([]Badge, 0, len(p.Badges))
	for _, b := range p.Badges {
		if _, ok := ParseBadge(string(b)); ok {
			badges = AppendBadge(badges, b)
		}
	}
	p.Badges = badges

	return p, true
}

// NormalizeAll normalizes a product list, dropping unusable records and
// keeping the first occurrence of each id.
func NormalizeAll(products []Product, cfg NormalizeConfig) []Product {
	out := make([]Product, 0, len(products))
	seen := make(map[ProductID]bool, len(products))
	for _, p := range products {
		np, ok := Normalize(p, cfg)
		if !ok || seen[np.ID] {
			continue
		}
		seen[np.ID] = true
		out = append(out, np)
	}
	return out
}
