package cart

import (
	"sync"
)

// Listener observes committed mutations. It runs on the dispatching
// goroutine while the store is locked, in dispatch order, so it must return
// quickly and must not call back into the store.
type Listener func(prev, next State, action Action)

// MutationRecorder counts dispatched actions.
type MutationRecorder interface {
	IncMutation(action string)
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder attaches a mutation counter.
func WithRecorder(rec MutationRecorder) Option {
	return func(s *Store) {
		s.recorder = rec
	}
}

// Store is the single owner of a cart's state. Every mutation funnels
// through Dispatch, which serializes writers, so two rapid AddItem calls for
// the same id are applied in order and each sees the result of the last.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    int
	recorder  MutationRecorder
}

type subscription struct {
	id int
	fn Listener
}

// NewStore returns an empty cart with the drawer closed.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state: State{}.withItems(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the current committed state. The returned Items slice is a
// copy owned by the caller.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action, commits the result and notifies listeners.
func (s *Store) Dispatch(action Action) State {
	if action == nil {
		return s.State()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next := Reduce(prev, action)
	s.state = next

	if s.recorder != nil {
		s.recorder.IncMutation(action.Name())
	}
	for _, sub := range s.listeners {
		sub.fn(prev, next, action)
	}
	return next.Clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			kept := make([]subscription, 0, len(s.listeners))
			for _, sub := range s.listeners {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.listeners = kept
		})
	}
}

// AddItem adds item, merging quantities with an existing line of the same id.
func (s *Store) AddItem(item Item) State {
	return s.Dispatch(AddItem{Item: item})
}

// RemoveItem drops the line with id. Unknown ids are ignored.
func (s *Store) RemoveItem(id string) State {
	return s.Dispatch(RemoveItem{ID: id})
}

// UpdateQuantity sets the line's quantity, clamped to [1, MaxQuantity].
func (s *Store) UpdateQuantity(id string, quantity int) State {
	return s.Dispatch(UpdateQuantity{ID: id, Quantity: quantity})
}

// ClearCart empties the cart.
func (s *Store) ClearCart() State {
	return s.Dispatch(ClearCart{})
}

// ToggleCart sets the drawer to *open, or flips it when open is nil.
func (s *Store) ToggleCart(open *bool) State {
	return s.Dispatch(ToggleCart{Open: open})
}
