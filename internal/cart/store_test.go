package cart

import (
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertTotalsConsistent(t *testing.T, s State) {
	t.Helper()
	count := 0
	subtotal := decimal.Zero
	for _, item := range s.Items {
		count += item.Quantity
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if count != s.TotalItemCount {
		t.Fatalf("item count drifted: derived %d stored %d", count, s.TotalItemCount)
	}
	if !subtotal.Equal(s.Subtotal) {
		t.Fatalf("subtotal drifted: derived %s stored %s", subtotal, s.Subtotal)
	}
}

func TestAddItemMergesSameID(t *testing.T) {
	store := NewStore()
	quantities := []int{1, 3, 2, 5}
	want := 0
	for _, q := range quantities {
		want += q
		store.AddItem(Item{ID: "p1", Name: "Silk Wig", UnitPrice: price("200"), Quantity: q})
	}

	state := store.State()
	if len(state.Items) != 1 {
		t.Fatalf("expected a single line, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != want {
		t.Fatalf("expected quantity %d, got %d", want, state.Items[0].Quantity)
	}
	assertTotalsConsistent(t, state)
}

func TestAddItemKeepsOriginalNameAndPrice(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "p1", Name: "Silk Wig", UnitPrice: price("200"), Quantity: 1})
	store.AddItem(Item{ID: "p1", Name: "Silk Wig (renamed)", UnitPrice: price("250"), Quantity: 1})

	item, ok := store.State().Find("p1")
	if !ok {
		t.Fatal("expected p1 in cart")
	}
	if item.Name != "Silk Wig" || !item.UnitPrice.Equal(price("200")) {
		t.Fatalf("captured fields changed: %+v", item)
	}
}

func TestAddItemClampsQuantityAndOpensDrawer(t *testing.T) {
	store := NewStore()
	state := store.AddItem(Item{ID: "p1", Name: "Clip", UnitPrice: price("99.50"), Quantity: 0})

	if !state.IsDrawerOpen {
		t.Fatal("adding an item should open the drawer")
	}
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected clamped quantity 1, got %d", state.Items[0].Quantity)
	}
	state = store.AddItem(Item{ID: "p1", Quantity: -4})
	if state.Items[0].Quantity != 2 {
		t.Fatalf("negative add should count as 1, got %d", state.Items[0].Quantity)
	}
}

func TestSubtotalHoldsAfterEveryMutation(t *testing.T) {
	store := NewStore()
	steps := []Action{
		AddItem{Item: Item{ID: "a", UnitPrice: price("120.25"), Quantity: 2}},
		AddItem{Item: Item{ID: "b", UnitPrice: price("999"), Quantity: 1}},
		AddItem{Item: Item{ID: "c", UnitPrice: price("0"), Quantity: 3}},
		UpdateQuantity{ID: "a", Quantity: 7},
		RemoveItem{ID: "b"},
		RemoveItem{ID: "missing"},
		UpdateQuantity{ID: "missing", Quantity: 4},
		ToggleCart{},
		AddItem{Item: Item{ID: "a", UnitPrice: price("120.25"), Quantity: 1}},
		ClearCart{},
		AddItem{Item: Item{ID: "d", UnitPrice: price("10.10"), Quantity: 3}},
	}
	for _, action := range steps {
		state := store.Dispatch(action)
		assertTotalsConsistent(t, state)
	}

	state := store.State()
	if !state.Subtotal.Equal(price("30.30")) {
		t.Fatalf("unexpected final subtotal %s", state.Subtotal)
	}
}

func TestUpdateQuantityNeverDropsBelowOne(t *testing.T) {
	for _, q := range []int{0, -1, -100} {
		store := NewStore()
		store.AddItem(Item{ID: "p1", UnitPrice: price("10"), Quantity: 5})
		state := store.UpdateQuantity("p1", q)
		if state.Items[0].Quantity != 1 {
			t.Fatalf("UpdateQuantity(%d) left quantity %d", q, state.Items[0].Quantity)
		}
	}
}

func TestQuantitySaturatesAtMax(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "p1", UnitPrice: price("2"), Quantity: math.MaxInt})
	state := store.AddItem(Item{ID: "p1", UnitPrice: price("2"), Quantity: math.MaxInt})
	if state.Items[0].Quantity != MaxQuantity {
		t.Fatalf("expected quantity %d, got %d", MaxQuantity, state.Items[0].Quantity)
	}
	if !state.Subtotal.IsPositive() {
		t.Fatalf("expected positive subtotal, got %s", state.Subtotal)
	}
	assertTotalsConsistent(t, state)

	state = store.UpdateQuantity("p1", math.MaxInt)
	if state.Items[0].Quantity != MaxQuantity {
		t.Fatalf("UpdateQuantity left quantity %d", state.Items[0].Quantity)
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "p1", UnitPrice: price("10"), Quantity: 2})
	before := store.State()

	store.RemoveItem("nope")
	store.UpdateQuantity("nope", 9)

	after := store.State()
	if !ItemsEqual(before.Items, after.Items) {
		t.Fatalf("items changed: %+v -> %+v", before.Items, after.Items)
	}
}

func TestClearCartZeroesTotals(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "p1", UnitPrice: price("10"), Quantity: 2})
	state := store.ClearCart()
	if !state.IsEmpty() || state.TotalItemCount != 0 || !state.Subtotal.IsZero() {
		t.Fatalf("expected empty cart, got %+v", state)
	}
}

func TestToggleCart(t *testing.T) {
	store := NewStore()
	if store.ToggleCart(nil).IsDrawerOpen != true {
		t.Fatal("toggle from closed should open")
	}
	if store.ToggleCart(nil).IsDrawerOpen != false {
		t.Fatal("second toggle should close")
	}
	open := true
	store.ToggleCart(&open)
	if !store.ToggleCart(&open).IsDrawerOpen {
		t.Fatal("explicit open should stay open")
	}
}

func TestHydrateMergesWithoutOpeningDrawer(t *testing.T) {
	store := NewStore()
	state := store.Dispatch(Hydrate{Items: []Item{
		{ID: "p1", UnitPrice: price("200"), Quantity: 1},
		{ID: "p2", UnitPrice: price("50"), Quantity: 2},
		{ID: "p1", UnitPrice: price("200"), Quantity: 2},
	}})
	if len(state.Items) != 2 {
		t.Fatalf("duplicate ids should merge, got %d lines", len(state.Items))
	}
	if state.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", state.Items[0].Quantity)
	}
	if state.IsDrawerOpen {
		t.Fatal("hydration should not open the drawer")
	}
	assertTotalsConsistent(t, state)
}

func TestListenersSeeCommittedStateInOrder(t *testing.T) {
	store := NewStore()
	var seen []string
	unsubscribe := store.Subscribe(func(prev, next State, action Action) {
		assertTotalsConsistent(t, next)
		seen = append(seen, action.Name())
	})

	store.AddItem(Item{ID: "p1", UnitPrice: price("10"), Quantity: 1})
	store.UpdateQuantity("p1", 3)
	unsubscribe()
	unsubscribe()
	store.ClearCart()

	if len(seen) != 2 || seen[0] != "add_item" || seen[1] != "update_quantity" {
		t.Fatalf("unexpected notifications %v", seen)
	}
}

func TestStateIsACopy(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "p1", UnitPrice: price("10"), Quantity: 1})
	state := store.State()
	state.Items[0].Quantity = 99

	if got := store.State().Items[0].Quantity; got != 1 {
		t.Fatalf("caller mutation leaked into store: %d", got)
	}
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(Item{ID: "p1", UnitPrice: price("1"), Quantity: 2})
		}()
	}
	wg.Wait()

	state := store.State()
	if len(state.Items) != 1 || state.Items[0].Quantity != 100 {
		t.Fatalf("expected one line with 100, got %+v", state.Items)
	}
	assertTotalsConsistent(t, state)
}

type countingRecorder struct {
	counts map[string]int
}

func (c *countingRecorder) IncMutation(action string) {
	c.counts[action]++
}

func TestRecorderCountsActions(t *testing.T) {
	rec := &countingRecorder{counts: map[string]int{}}
	store := NewStore(WithRecorder(rec))
	store.AddItem(Item{ID: "p1", UnitPrice: price("1"), Quantity: 1})
	store.AddItem(Item{ID: "p1", UnitPrice: price("1"), Quantity: 1})
	store.ClearCart()

	if rec.counts["add_item"] != 2 || rec.counts["clear_cart"] != 1 {
		t.Fatalf("unexpected counts %v", rec.counts)
	}
}

func TestPlaceholderFallback(t *testing.T) {
	item := Item{ID: "p1"}
	if got := item.Image(PlaceholderThumbnail); got != "/images/placeholders/thumbnail.jpg" {
		t.Fatalf("unexpected placeholder %s", got)
	}
	if got := PlaceholderImage("huge"); got != "/images/placeholders/medium.jpg" {
		t.Fatalf("unknown size should fall back to medium, got %s", got)
	}
	item.ImageRef = "https://cdn.example/wig.jpg"
	if got := item.Image(PlaceholderThumbnail); got != item.ImageRef {
		t.Fatalf("expected image ref, got %s", got)
	}
}
