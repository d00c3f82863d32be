package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"axm-storefront/internal/cart"
	"axm-storefront/internal/checkout"
	"axm-storefront/internal/filter"
	"axm-storefront/internal/model"
	"axm-storefront/internal/reconcile"
)

// Operations shared by the REST and MCP transports.

// ProductQuery filters the product list. MaxPrice is in major units.
type ProductQuery struct {
	Category string `json:"category,omitempty" jsonschema:"category such as tops, bottoms, accessories or vault; all for everything"`
	Filter   string `json:"filter,omitempty" jsonschema:"collection filter: new-arrivals, best-sellers, sale, vault or limited"`
	MaxPrice string `json:"max_price,omitempty" jsonschema:"maximum price in rupees"`
}

// AddItemRequest adds a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// ReplaceCartRequest is the full desired cart state.
type ReplaceCartRequest struct {
	Items []AddItemRequest `json:"items"`
}

// UpdateItemRequest sets a line's quantity. Zero or less removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) listProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	fq := filter.Query{Category: q.Category, Filter: q.Filter}
	if s := strings.TrimSpace(q.MaxPrice); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return nil, model.NewValidationError("max_price", "must be a non-negative number")
		}
		limit := model.FromMajor(f)
		fq.MaxPrice = &limit
	}
	return filter.Apply(h.catalog.Get(ctx), fq), nil
}

func (h *Handler) addItem(ctx context.Context, session string, req AddItemRequest) (cart.View, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return cart.View{}, model.NewValidationError("product_id", "required")
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		return cart.View{}, model.NewValidationError("quantity", "must be at least 1")
	}

	p, err := h.catalog.Lookup(ctx, req.ProductID)
	if err != nil {
		return cart.View{}, err
	}

	variant, err := checkVariant(p, req.Size, req.Color)
	if err != nil {
		return cart.View{}, err
	}

	c := h.carts.Cart(ctx, session)
	have := 0
	if line, ok := c.State().Find(cart.LineID(p.ID, variant)); ok {
		have = line.Quantity
	}
	if err := checkStock(p, variant, have+qty); err != nil {
		return cart.View{}, err
	}

	view, _ := c.Dispatch(ctx, cart.AddItem{Product: *p, Variant: variant, Quantity: qty})
	h.logger.InfoContext(ctx, "added to cart",
		"product_id", string(p.ID), "quantity", qty, "lines", len(view.Items))
	return view, nil
}

func (h *Handler) updateItem(ctx context.Context, session, lineID string, qty int) (cart.View, error) {
	c := h.carts.Cart(ctx, session)
	if _, ok := c.State().Find(lineID); !ok {
		return cart.View{}, model.NewNotFoundError("cart item")
	}
	view, _ := c.Dispatch(ctx, cart.UpdateQuantity{LineID: lineID, Quantity: qty})
	return view, nil
}

func (h *Handler) removeItem(ctx context.Context, session, lineID string) cart.View {
	view, _ := h.carts.Cart(ctx, session).Dispatch(ctx, cart.RemoveItem{LineID: lineID})
	return view
}

func (h *Handler) clearCart(ctx context.Context, session string) cart.View {
	view, _ := h.carts.Cart(ctx, session).Dispatch(ctx, cart.Clear{})
	return view
}

func (h *Handler) checkoutLinks(ctx context.Context, session string) (*checkout.Links, error) {
	state := h.carts.Cart(ctx, session).State()
	links, err := h.handoff.Links(state)
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "checkout handoff",
		"order_id", links.OrderID, "total", links.Totals.Total.Major(), "items", links.Totals.ItemCount)
	return links, nil
}

// replaceCart makes the cart hold exactly items, applying only the delta.
// Untouched lines keep the price they were added at.
func (h *Handler) replaceCart(ctx context.Context, session string, items []AddItemRequest) (cart.View, error) {
	desired := make([]reconcile.Desired, 0, len(items))
	totals := make(map[string]int, len(items))
	for i, req := range items {
		qty := 1
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		if qty < 0 {
			return cart.View{}, model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must not be negative")
		}
		p, err := h.catalog.Lookup(ctx, req.ProductID)
		if err != nil {
			return cart.View{}, err
		}
		variant, err := checkVariant(p, req.Size, req.Color)
		if err != nil {
			return cart.View{}, err
		}
		id := cart.LineID(p.ID, variant)
		totals[id] += qty
		if err := checkStock(p, variant, totals[id]); err != nil {
			return cart.View{}, err
		}
		desired = append(desired, reconcile.Desired{Product: *p, Variant: variant, Quantity: qty})
	}

	c := h.carts.Cart(ctx, session)
	plan := reconcile.Diff(c.State(), desired)
	if plan.IsEmpty() {
		return c.View(), nil
	}
	view, _ := c.DispatchAll(ctx, plan.Actions()...)
	h.logger.InfoContext(ctx, "cart replaced",
		"removed", len(plan.Remove), "updated", len(plan.Update), "added", len(plan.Add))
	return view, nil
}

// checkVariant trims and validates a size and color against what p offers
// and returns them as the product spells them. Products that list no sizes
// or colors accept any value.
func checkVariant(p *model.Product, size, color string) (cart.Variant, error) {
	v := cart.Variant{Size: strings.TrimSpace(size), Color: strings.TrimSpace(color)}
	if v.Size != "" {
		switch {
		case len(p.Sizes) > 0:
			listed, ok := lookupFold(p.Sizes, v.Size)
			if !ok {
				return v, model.NewValidationError("size", fmt.Sprintf("%q is not offered", v.Size))
			}
			v.Size = listed
		case len(p.Stock.BySize) > 0:
			for key := range p.Stock.BySize {
				if strings.EqualFold(key, v.Size) {
					v.Size = key
					break
				}
			}
		}
	}
	if v.Color != "" && len(p.Colors) > 0 {
		listed, ok := lookupFold(p.Colors, v.Color)
		if !ok {
			return v, model.NewValidationError("color", fmt.Sprintf("%q is not offered", v.Color))
		}
		v.Color = listed
	}
	return v, nil
}

// checkStock rejects a line quantity above tracked stock.
func checkStock(p *model.Product, v cart.Variant, qty int) error {
	if avail := p.Stock.Available(v.Size); avail >= 0 && qty > avail {
		return model.NewValidationError("quantity", fmt.Sprintf("only %d in stock", avail))
	}
	return nil
}

// lookupFold returns the entry of values equal to v under case folding.
func lookupFold(values []string, v string) (string, bool) {
	for _, have := range values {
		if strings.EqualFold(have, v) {
			return have, true
		}
	}
	return "", false
}
