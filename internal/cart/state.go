package cart

import "github.com/shopspring/decimal"

// State is an immutable view of the cart. TotalItemCount and Subtotal are
// always derived from Items in the same commit.
type State struct {
	Items          []Item
	TotalItemCount int
	Subtotal       decimal.Decimal
	IsDrawerOpen   bool
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Find returns the line with id, if present.
func (s State) Find(id string) (Item, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.Items[idx], true
	}
	return Item{}, false
}

// Clone returns a copy whose Items slice can be modified freely.
func (s State) Clone() State {
	out := s
	out.Items = append([]Item(nil), s.Items...)
	return out
}

func (s State) indexOf(id string) int {
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// withItems replaces the item list and recomputes the derived totals.
func (s State) withItems(items []Item) State {
	count := 0
	subtotal := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}
	s.Items = items
	s.TotalItemCount = count
	s.Subtotal = subtotal
	return s
}

// ItemsEqual reports whether two item lists hold the same lines in the same order.
func ItemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Name != y.Name || x.Quantity != y.Quantity || x.ImageRef != y.ImageRef || !x.UnitPrice.Equal(y.UnitPrice) {
			return false
		}
	}
	return true
}
