package cart

import (
	"axm-storefront/internal/model"
)

// Action is a cart transition. The set is closed: AddItem, RemoveItem,
// UpdateQuantity and Clear.
type Action interface {
	apply(State) State
}

// AddItem adds Quantity units of Product in Variant. Repeated adds of the
// same line increment it. Quantities below 1 are ignored.
type AddItem struct {
	Product  model.Product
	Variant  Variant
	Quantity int
}

// RemoveItem drops a line. Removing an absent line is a no-op.
type RemoveItem struct {
	LineID string
}

// UpdateQuantity sets a line's quantity exactly. Zero or less removes it.
type UpdateQuantity struct {
	LineID   string
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a AddItem) apply(s State) State {
	if a.Quantity < 1 {
		return s
	}
	return mergeLine(s, LineItem{
		ID:        LineID(a.Product.ID, a.Variant),
		ProductID: a.Product.ID,
		Name:      a.Product.Name,
		Images:    append([]string(nil), a.Product.Images...),
		Size:      a.Variant.Size,
		Color:     a.Variant.Color,
		Price:     a.Product.Price,
		Currency:  a.Product.Currency,
		Quantity:  a.Quantity,
	})
}

func (a RemoveItem) apply(s State) State {
	out := State{Items: make([]LineItem, 0, len(s.Items))}
	for _, l := range s.Items {
		if l.ID != a.LineID {
			out.Items = append(out.Items, l)
		}
	}
	return out
}

func (a UpdateQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveItem{LineID: a.LineID}.apply(s)
	}
	out := s.clone()
	for i := range out.Items {
		if out.Items[i].ID == a.LineID {
			out.Items[i].Quantity = a.Quantity
		}
	}
	return out
}

func (Clear) apply(State) State {
	return State{Items: []LineItem{}}
}

// mergeLine adds line to s, incrementing an existing line with the same
// id instead of appending. The existing line keeps its price.
func mergeLine(s State, line LineItem) State {
	out := s.clone()
	for i := range out.Items {
		if out.Items[i].ID == line.ID {
			out.Items[i].Quantity += line.Quantity
			return out
		}
	}
	out.Items = append(out.Items, line)
	return out
}
