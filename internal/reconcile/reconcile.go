// Package reconcile computes the cart actions that turn the current cart
// into a desired one. A client that keeps its own copy of the cart (an
// offline UI, an agent) sends the full desired state and only the delta is
// applied, so prices of untouched lines are preserved.
package reconcile

import (
	"axm-storefront/internal/cart"
	"axm-storefront/internal/model"
)

// Desired is one line of the desired cart state.
type Desired struct {
	Product  model.Product
	Variant  cart.Variant
	Quantity int
}

// LineID is the cart line the desired entry maps to.
func (d Desired) LineID() string {
	return cart.LineID(d.Product.ID, d.Variant)
}

// Plan describes the mutations needed to reconcile a cart.
// Actions are applied in order: Remove → Update → Add.
type Plan struct {
	Remove []cart.RemoveItem
	Update []cart.UpdateQuantity
	Add    []cart.AddItem
}

// IsEmpty returns true if no changes are needed.
func (p *Plan) IsEmpty() bool {
	return len(p.Remove) == 0 && len(p.Update) == 0 && len(p.Add) == 0
}

// Actions flattens the plan in application order.
func (p *Plan) Actions() []cart.Action {
	out := make([]cart.Action, 0, len(p.Remove)+len(p.Update)+len(p.Add))
	for _, a := range p.Remove {
		out = append(out, a)
	}
	for _, a := range p.Update {
		out = append(out, a)
	}
	for _, a := range p.Add {
		out = append(out, a)
	}
	return out
}

// Diff computes the plan from current to desired. Lines match by line id.
// Desired entries for the same line are summed; entries with a quantity
// below 1 are treated as absent. Output order follows desired order for
// updates and adds, and current order for removals.
func Diff(current cart.State, desired []Desired) *Plan {
	plan := &Plan{}

	want := make(map[string]int, len(desired))
	var order []Desired
	for _, d := range desired {
		if d.Quantity < 1 {
			continue
		}
		id := d.LineID()
		if _, seen := want[id]; !seen {
			order = append(order, d)
		}
		want[id] += d.Quantity
	}

	for _, line := range current.Items {
		if _, keep := want[line.ID]; !keep {
			plan.Remove = append(plan.Remove, cart.RemoveItem{LineID: line.ID})
		}
	}

	for _, d := range order {
		id := d.LineID()
		qty := want[id]
		if line, ok := current.Find(id); ok {
			if line.Quantity != qty {
				plan.Update = append(plan.Update, cart.UpdateQuantity{LineID: id, Quantity: qty})
			}
			continue
		}
		plan.Add = append(plan.Add, cart.AddItem{Product: d.Product, Variant: d.Variant, Quantity: qty})
	}

	return plan
}
