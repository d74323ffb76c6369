package cart

// Reduce applies action to state and returns the next state. It never
// mutates the input: any change to the item list produces a new slice, so a
// State handed to a listener stays valid after later dispatches.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		next := state.withItems(mergeItem(state.Items, a.Item))
		next.IsDrawerOpen = true
		return next

	case Hydrate:
		items := state.Items
		for _, item := range a.Items {
			items = mergeItem(items, item)
		}
		return state.withItems(items)

	case RemoveItem:
		idx := state.indexOf(a.ID)
		if idx < 0 {
			return state
		}
		items := make([]Item, 0, len(state.Items)-1)
		items = append(items, state.Items[:idx]...)
		items = append(items, state.Items[idx+1:]...)
		return state.withItems(items)

	case UpdateQuantity:
		idx := state.indexOf(a.ID)
		if idx < 0 {
			return state
		}
		items := append([]Item(nil), state.Items...)
		items[idx].Quantity = clampQuantity(a.Quantity)
		return state.withItems(items)

	case ClearCart:
		return state.withItems(nil)

	case ToggleCart:
		if a.Open != nil {
			state.IsDrawerOpen = *a.Open
		} else {
			state.IsDrawerOpen = !state.IsDrawerOpen
		}
		return state

	default:
		return state
	}
}

func mergeItem(items []Item, item Item) []Item {
	item.Quantity = clampQuantity(item.Quantity)
	out := append([]Item(nil), items...)
	for i := range out {
		if out[i].ID == item.ID {
			// both sides are already within [1, MaxQuantity], so the sum cannot overflow
			out[i].Quantity = clampQuantity(out[i].Quantity + item.Quantity)
			return out
		}
	}
	return append(out, item)
}
