package checkout

import (
	"context"
	"net/url"
	"sync"
)

const (
	CartPath         = "/cart"
	ConfirmationPath = "/checkout/success"
)

// Navigator receives the orchestrator's navigation intents.
type Navigator interface {
	ToCart(ctx context.Context)
	ToConfirmation(ctx context.Context, orderID string)
}

// Redirect holds the navigation target chosen while serving one request.
type Redirect struct {
	mu       sync.Mutex
	location string
}

func (r *Redirect) set(location string) {
	r.mu.Lock()
	r.location = location
	r.mu.Unlock()
}

// Location returns the captured target, or "" when none was chosen.
func (r *Redirect) Location() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

type redirectKey struct{}

// WithRedirect returns a context whose navigation intents are captured in the
// returned Redirect.
func WithRedirect(ctx context.Context) (context.Context, *Redirect) {
	r := &Redirect{}
	return context.WithValue(ctx, redirectKey{}, r), r
}

// RedirectNavigator turns navigation intents into storefront paths and stores
// them in the request's Redirect. Intents on contexts without one are dropped.
type RedirectNavigator struct{}

func (RedirectNavigator) ToCart(ctx context.Context) {
	capture(ctx, CartPath)
}

func (RedirectNavigator) ToConfirmation(ctx context.Context, orderID string) {
	capture(ctx, ConfirmationPath+"?"+url.Values{"orderId": {orderID}}.Encode())
}

func capture(ctx context.Context, location string) {
	if ctx == nil {
		return
	}
	if r, ok := ctx.Value(redirectKey{}).(*Redirect); ok {
		r.set(location)
	}
}
