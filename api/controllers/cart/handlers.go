package cart

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/CoderRahul01/OrmeeHairs/api/controllers"
	"github.com/CoderRahul01/OrmeeHairs/api/responses"
	"github.com/CoderRahul01/OrmeeHairs/api/validators"
	cartsvc "github.com/CoderRahul01/OrmeeHairs/internal/cart"
	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
)

// CartFetch returns the device's cart with its price quote.
func CartFetch(sessions controllers.SessionProvider, rules pricing.Rules, logg *logger.Logger) http.HandlerFunc {
	return withStore(sessions, logg, func(w http.ResponseWriter, r *http.Request, store *cartsvc.Store) {
		responses.WriteSuccess(w, newCartView(store.State(), rules))
	})
}

// CartAddItem adds an item, merging quantities with an existing line of the
// same id.
func CartAddItem(sessions controllers.SessionProvider, rules pricing.Rules, logg *logger.Logger) http.HandlerFunc {
	return withStore(sessions, logg, func(w http.ResponseWriter, r *http.Request, store *cartsvc.Store) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := payload.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.AddItem(item), rules))
	})
}

// CartUpdateItem sets an item's quantity. Quantities below one are raised to
// one; unknown ids leave the cart unchanged.
func CartUpdateItem(sessions controllers.SessionProvider, rules pricing.Rules, logg *logger.Logger) http.HandlerFunc {
	return withStore(sessions, logg, func(w http.ResponseWriter, r *http.Request, store *cartsvc.Store) {
		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.UpdateQuantity(itemID, *payload.Quantity), rules))
	})
}

// CartRemoveItem drops an item from the cart.
func CartRemoveItem(sessions controllers.SessionProvider, rules pricing.Rules, logg *logger.Logger) http.HandlerFunc {
	return withStore(sessions, logg, func(w http.ResponseWriter, r *http.Request, store *cartsvc.Store) {
		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.RemoveItem(itemID), rules))
	})
}

// CartClear empties the cart.
func CartClear(sessions controllers.SessionProvider, rules pricing.Rules, logg *logger.Logger) http.HandlerFunc {
	return withStore(sessions, logg, func(w http.ResponseWriter, r *http.Request, store *cartsvc.Store) {
		responses.WriteSuccess(w, newCartView(store.ClearCart(), rules))
	})
}

// CartToggleDrawer opens or closes the cart drawer. Without an explicit
// "open" value the drawer flips.
func CartToggleDrawer(sessions controllers.SessionProvider, rules pricing.Rules, logg *logger.Logger) http.HandlerFunc {
	return withStore(sessions, logg, func(w http.ResponseWriter, r *http.Request, store *cartsvc.Store) {
		var payload toggleDrawerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.ToggleCart(payload.Open), rules))
	})
}

func withStore(sessions controllers.SessionProvider, logg *logger.Logger, next func(http.ResponseWriter, *http.Request, *cartsvc.Store)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := controllers.SessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next(w, r, s.Cart)
	}
}

func itemIDFromPath(r *http.Request) (string, error) {
	itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if itemID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return itemID, nil
}
