package cart

// Action is a cart mutation. The set is closed: only the types below
// implement it, and Reduce handles each one.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string
	isAction()
}

// AddItem appends Item or, when a line with the same ID exists, adds
// Item.Quantity to it. It also opens the drawer.
type AddItem struct {
	Item Item
}

// RemoveItem deletes the line with ID. Unknown ids are ignored.
type RemoveItem struct {
	ID string
}

// UpdateQuantity sets the quantity of line ID, clamped to at least 1.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// ClearCart empties the cart.
type ClearCart struct{}

// ToggleCart sets the drawer flag to *Open, or flips it when Open is nil.
type ToggleCart struct {
	Open *bool
}

// Hydrate merges restored snapshot lines with add semantics in one commit,
// leaving the drawer flag alone.
type Hydrate struct {
	Items []Item
}

func (AddItem) Name() string        { return "add_item" }
func (RemoveItem) Name() string     { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (ClearCart) Name() string      { return "clear_cart" }
func (ToggleCart) Name() string     { return "toggle_cart" }
func (Hydrate) Name() string        { return "hydrate" }

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ClearCart) isAction()      {}
func (ToggleCart) isAction()     {}
func (Hydrate) isAction()        {}
