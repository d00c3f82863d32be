// Package cart implements the cart state machine: a pure reducer over a
// closed set of actions, and a persisted, per-session Cart around it.
package cart

import (
	"axm-storefront/internal/model"
)

// DefaultDimension fills a missing size or color in a line id.
const DefaultDimension = "default"

// Variant selects the size and color of a product.
type Variant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// LineID returns the composite key of a product in a variant.
func LineID(productID model.ProductID, v Variant) string {
	size, color := v.Size, v.Color
	if size == "" {
		size = DefaultDimension
	}
	if color == "" {
		color = DefaultDimension
	}
	return string(productID) + "-" + size + "-" + color
}

// LineItem is a product in a variant with a quantity. Price is the unit
// price when the line was first added.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID model.ProductID `json:"product_id"`
	Name      string          `json:"name"`
	Images    []string        `json:"images,omitempty"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Price     model.Money     `json:"price"`
	Currency  string          `json:"currency,omitempty"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is Price × Quantity.
func (l LineItem) LineTotal() model.Money {
	return l.Price * model.Money(l.Quantity)
}

// Image returns the line's first image or the placeholder.
func (l LineItem) Image() string {
	if len(l.Images) > 0 {
		return l.Images[0]
	}
	return model.PlaceholderImage
}

// State is the cart contents in insertion order. Totals are derived on
// read and never stored alongside the items.
type State struct {
	Items []LineItem `json:"items"`
}

// Find returns the line with id.
func (s State) Find(id string) (LineItem, bool) {
	for _, l := range s.Items {
		if l.ID == id {
			return l, true
		}
	}
	return LineItem{}, false
}

// Empty reports whether the cart holds no lines.
func (s State) Empty() bool { return len(s.Items) == 0 }

// clone copies the item slice so a reducer never aliases its input.
func (s State) clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}

// Pricing holds the shipping and tax rules.
type Pricing struct {
	FreeShippingOver model.Money // shipping is free when subtotal exceeds this
	ShippingFee      model.Money
	TaxRateBPS       int64 // basis points; 1800 is 18%
}

// DefaultPricing returns the storefront rules: free shipping above ₹1000,
// ₹50 otherwise, 18% GST.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingOver: 100000,
		ShippingFee:      5000,
		TaxRateBPS:       1800,
	}
}

// Totals are the derived cart amounts.
type Totals struct {
	Subtotal  model.Money `json:"subtotal"`
	Shipping  model.Money `json:"shipping"`
	Tax       model.Money `json:"tax"`
	Total     model.Money `json:"total"`
	ItemCount int         `json:"item_count"`
}

// Totals computes the derived amounts. Tax is rounded to whole paise
// before summing, so Total always equals Subtotal + Shipping + Tax.
func (s State) Totals(p Pricing) Totals {
	var t Totals
	for _, l := range s.Items {
		t.Subtotal += l.LineTotal()
		t.ItemCount += l.Quantity
	}
	if t.Subtotal <= p.FreeShippingOver {
		t.Shipping = p.ShippingFee
	}
	t.Tax = t.Subtotal.MulRate(p.TaxRateBPS)
	t.Total = t.Subtotal + t.Shipping + t.Tax
	return t
}
