package cart

import (
	"testing"

	"axm-storefront/internal/model"
)

func tee(price model.Money) model.Product {
	return model.Product{ID: "1", Name: "Freedom Graphic Tee", Price: price, Images: []string{"front.jpg", "back.jpg"}}
}

func TestLineID(t *testing.T) {
	tests := []struct {
		variant Variant
		want    string
	}{
		{variant: Variant{Size: "M", Color: "Black"}, want: "1-M-Black"},
		{variant: Variant{Size: "M"}, want: "1-M-default"},
		{variant: Variant{Color: "Black"}, want: "1-default-Black"},
		{variant: Variant{}, want: "1-default-default"},
	}
	for _, tt := range tests {
		if got := LineID("1", tt.variant); got != tt.want {
			t.Errorf("LineID(%+v) = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestReduce_AddMerges(t *testing.T) {
	add := AddItem{Product: tee(8500), Variant: Variant{Size: "M"}, Quantity: 1}
	s := Reduce(Reduce(State{}, add), add)

	if len(s.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(s.Items))
	}
	if s.Items[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", s.Items[0].Quantity)
	}
}

func TestReduce_VariantsAreDistinctLines(t *testing.T) {
	s := Reduce(State{}, AddItem{Product: tee(8500), Variant: Variant{Size: "M"}, Quantity: 1})
	s = Reduce(s, AddItem{Product: tee(8500), Variant: Variant{Size: "L"}, Quantity: 1})
	if len(s.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(s.Items))
	}
	if s.Items[0].ID != "1-M-default" || s.Items[1].ID != "1-L-default" {
		t.Errorf("ids = %s, %s", s.Items[0].ID, s.Items[1].ID)
	}
}

func TestReduce_AddIgnoresNonPositiveQuantity(t *testing.T) {
	for _, q := range []int{0, -1} {
		s := Reduce(State{}, AddItem{Product: tee(8500), Quantity: q})
		if !s.Empty() {
			t.Errorf("AddItem quantity %d added %v", q, s.Items)
		}
	}
}

func TestReduce_RemoveIsIdempotent(t *testing.T) {
	s := Reduce(State{}, AddItem{Product: tee(8500), Quantity: 1})

	got := Reduce(s, RemoveItem{LineID: "nope"})
	if len(got.Items) != 1 || got.Items[0].ID != s.Items[0].ID || got.Items[0].Quantity != 1 {
		t.Errorf("removing absent id changed items: %v", got.Items)
	}
	got = Reduce(Reduce(s, RemoveItem{LineID: "1-default-default"}), RemoveItem{LineID: "1-default-default"})
	if !got.Empty() {
		t.Errorf("items after remove = %v", got.Items)
	}
}

func TestReduce_UpdateQuantity(t *testing.T) {
	s := Reduce(State{}, AddItem{Product: tee(8500), Quantity: 2})
	id := s.Items[0].ID

	tests := []struct {
		name     string
		quantity int
		want     int // -1 means removed
	}{
		{name: "set exactly", quantity: 5, want: 5},
		{name: "zero removes", quantity: 0, want: -1},
		{name: "negative removes", quantity: -3, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(s, UpdateQuantity{LineID: id, Quantity: tt.quantity})
			line, ok := got.Find(id)
			if tt.want == -1 {
				if ok {
					t.Errorf("line still present with quantity %d", line.Quantity)
				}
				return
			}
			if !ok || line.Quantity != tt.want {
				t.Errorf("quantity = %d (present %v), want %d", line.Quantity, ok, tt.want)
			}
		})
	}

	if s.Items[0].Quantity != 2 {
		t.Errorf("input state modified: quantity = %d", s.Items[0].Quantity)
	}
}

func TestReduce_Clear(t *testing.T) {
	s := Reduce(State{}, AddItem{Product: tee(8500), Quantity: 2})
	if got := Reduce(s, Clear{}); !got.Empty() || got.Items == nil {
		t.Errorf("Clear = %#v", got.Items)
	}
}

// The line keeps the price it was added at.
func TestReduce_PriceSnapshot(t *testing.T) {
	p := tee(50000)
	s := Reduce(State{}, AddItem{Product: p, Quantity: 1})

	p.Price = 60000
	if s.Items[0].Price != 50000 {
		t.Errorf("price after catalog change = %d, want 50000", s.Items[0].Price)
	}

	s = Reduce(s, AddItem{Product: p, Quantity: 1})
	if s.Items[0].Price != 50000 || s.Items[0].Quantity != 2 {
		t.Errorf("line after re-add = %+v, want price 50000 qty 2", s.Items[0])
	}
}

func TestTotals(t *testing.T) {
	pricing := DefaultPricing()

	tests := []struct {
		name         string
		lines        []LineItem
		wantSubtotal model.Money
		wantShipping model.Money
		wantTax      model.Money
	}{
		{name: "empty", wantShipping: 5000},
		{
			name:         "below threshold",
			lines:        []LineItem{{ID: "a", Price: 8500, Quantity: 2}},
			wantSubtotal: 17000, wantShipping: 5000, wantTax: 3060,
		},
		{
			name:         "exactly threshold pays shipping",
			lines:        []LineItem{{ID: "a", Price: 50000, Quantity: 2}},
			wantSubtotal: 100000, wantShipping: 5000, wantTax: 18000,
		},
		{
			name:         "above threshold ships free",
			lines:        []LineItem{{ID: "a", Price: 100001, Quantity: 1}},
			wantSubtotal: 100001, wantShipping: 0, wantTax: 18000,
		},
		{
			name:         "tax rounds to paise",
			lines:        []LineItem{{ID: "a", Price: 6503, Quantity: 1}},
			wantSubtotal: 6503, wantShipping: 5000, wantTax: 1171,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := State{Items: tt.lines}.Totals(pricing)
			if got.Subtotal != tt.wantSubtotal || got.Shipping != tt.wantShipping || got.Tax != tt.wantTax {
				t.Errorf("Totals = %+v, want subtotal %d shipping %d tax %d", got, tt.wantSubtotal, tt.wantShipping, tt.wantTax)
			}
			if got.Total != got.Subtotal+got.Shipping+got.Tax {
				t.Errorf("Total %d != %d + %d + %d", got.Total, got.Subtotal, got.Shipping, got.Tax)
			}
		})
	}
}

// total == subtotal + shipping + tax after every mutation in a sequence.
func TestTotals_ConsistentAcrossMutations(t *testing.T) {
	pricing := DefaultPricing()
	hoodie := model.Product{ID: "2", Name: "Hoodie", Price: 16500}
	actions := []Action{
		AddItem{Product: tee(8500), Variant: Variant{Size: "M"}, Quantity: 3},
		AddItem{Product: hoodie, Quantity: 4},
		UpdateQuantity{LineID: "1-M-default", Quantity: 1},
		AddItem{Product: hoodie, Quantity: 2},
		RemoveItem{LineID: "2-default-default"},
		UpdateQuantity{LineID: "1-M-default", Quantity: 0},
		Clear{},
	}

	var s State
	for i, a := range actions {
		s = Reduce(s, a)
		tot := s.Totals(pricing)
		if tot.Total != tot.Subtotal+tot.Shipping+tot.Tax {
			t.Errorf("step %d: total %d inconsistent", i, tot.Total)
		}
		if (tot.Shipping == 0) != (tot.Subtotal > pricing.FreeShippingOver) {
			t.Errorf("step %d: shipping %d with subtotal %d", i, tot.Shipping, tot.Subtotal)
		}
		count := 0
		for _, l := range s.Items {
			if l.Quantity < 1 {
				t.Errorf("step %d: line %s has quantity %d", i, l.ID, l.Quantity)
			}
			count += l.Quantity
		}
		if tot.ItemCount != count {
			t.Errorf("step %d: ItemCount = %d, want %d", i, tot.ItemCount, count)
		}
	}
}
