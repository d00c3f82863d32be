// Package model defines the canonical storefront types shared by every
// product source, the cart and the HTTP surface.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PlaceholderImage is served whenever a product has no usable image.
const PlaceholderImage = "https://via.placeholder.com/600x800?text=AXM"

// ProductID identifies a product within one catalog snapshot.
// Snapshots may write ids as integers; they are kept in decimal form.
type ProductID string

func (id *ProductID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ProductID(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if !strings.ContainsAny(s, ".eE") {
		// Integers are kept digit for digit, however large.
		*id = ProductID(n.String())
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	*id = ProductID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Product is the normalized catalog entity.
type Product struct {
	ID             ProductID `json:"id"`
	Handle         string    `json:"handle,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	Price          Money     `json:"price"`
	CompareAtPrice *Money    `json:"compare_at_price,omitempty"`
	Currency       string    `json:"currency"`
	Images         []string  `json:"images"`
	Badges         []Badge   `json:"badges"`
	Stock          Stock     `json:"stock"`
	Colors         []string  `json:"colors,omitempty"`
	Sizes          []string  `json:"sizes,omitempty"`
	Variants       []Variant `json:"variants,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Vendor         string    `json:"vendor,omitempty"`
}

// Variant is a purchasable option of a product as reported by the
// commerce API.
type Variant struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Price     Money             `json:"price"`
	Available bool              `json:"available"`
	Options   map[string]string `json:"options,omitempty"`
}

// HasBadge reports whether the product carries b.
func (p *Product) HasBadge(b Badge) bool {
	for _, have := range p.Badges {
		if have == b {
			return true
		}
	}
	return false
}

// DefaultImage is the back view shown at rest.
func (p *Product) DefaultImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}
	return p.Images[0]
}

// HoverImage is the front view shown on hover, or the default image when
// the product only has one.
func (p *Product) HoverImage() string {
	if len(p.Images) > 1 && p.Images[1] != "" {
		return p.Images[1]
	}
	return p.DefaultImage()
}

// OnSale reports whether a higher "was" price is set.
func (p *Product) OnSale() bool {
	return p.CompareAtPrice != nil && *p.CompareAtPrice > p.Price
}

// Stock is either a single quantity or a per-size quantity map.
// The zero value means stock is unknown and treated as available.
type Stock struct {
	Quantity *int          `json:"quantity,omitempty"`
	BySize   map[string]int `json:"by_size,omitempty"`
}

// Known reports whether the source tracked stock at all.
func (s Stock) Known() bool {
	return s.Quantity != nil || len(s.BySize) > 0
}

// Available returns the quantity available for a size. Unknown stock and
// untracked sizes return -1.
func (s Stock) Available(size string) int {
	if len(s.BySize) > 0 {
		if q, ok := s.BySize[size]; ok {
			return q
		}
		if size == "" {
			total := 0
			for _, q := range s.BySize {
				total += q
			}
			return total
		}
		return -1
	}
	if s.Quantity != nil {
		return *s.Quantity
	}
	return -1
}

// UnmarshalJSON accepts a bare number, a size map, or the object form
// {"quantity": n, "by_size": {...}} as encoded by default.
func (s *Stock) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null" || trimmed == "":
		*s = Stock{}
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var obj struct {
			Quantity *int          `json:"quantity"`
			BySize   map[string]int `json:"by_size"`
		}
		if err := json.Unmarshal(data, &obj); err == nil && (obj.Quantity != nil || obj.BySize != nil) {
			*s = Stock{Quantity: obj.Quantity, BySize: obj.BySize}
			return nil
		}
		var bySize map[string]int
		if err := json.Unmarshal(data, &bySize); err != nil {
			return err
		}
		*s = Stock{BySize: bySize}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		q := int(n)
		*s = Stock{Quantity: &q}
		return nil
	}
}

// Quantity returns a Stock holding a single quantity.
func Quantity(n int) Stock {
	return Stock{Quantity: &n}
}
