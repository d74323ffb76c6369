package checkout

import (
	"net/http"

	"github.com/CoderRahul01/OrmeeHairs/api/controllers"
	"github.com/CoderRahul01/OrmeeHairs/api/responses"
	"github.com/CoderRahul01/OrmeeHairs/api/validators"
	checkoutsvc "github.com/CoderRahul01/OrmeeHairs/internal/checkout"
	"github.com/CoderRahul01/OrmeeHairs/pkg/enums"
	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
)

// CheckoutBegin opens or resumes the device's checkout draft. An empty cart
// is rejected with a redirect to the cart page in the error details.
func CheckoutBegin(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		draft, err := o.Begin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftView(draft, o.Quote()))
	})
}

// CheckoutFetch returns the open draft.
func CheckoutFetch(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		draft, ok := o.Current()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "checkout has not been started"))
			return
		}
		responses.WriteSuccess(w, newDraftView(draft, o.Quote()))
	})
}

func CheckoutShipping(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		var payload checkoutsvc.ShippingInfo
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		draft, err := o.SubmitShipping(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftView(draft, o.Quote()))
	})
}

func CheckoutPayment(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		draft, err := o.SubmitPayment(r.Context(), payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftView(draft, o.Quote()))
	})
}

// CheckoutBack moves the draft to an earlier step.
func CheckoutBack(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		var payload backRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		step, err := enums.ParseCheckoutStep(payload.Step)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid step"))
			return
		}
		draft, err := o.Back(r.Context(), step)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftView(draft, o.Quote()))
	})
}

// CheckoutSubmit places the order. On success the response carries the
// confirmation page location.
func CheckoutSubmit(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		ctx, redirect := checkoutsvc.WithRedirect(r.Context())
		draft, err := o.Submit(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submitResponse{
			OrderID:  draft.Submission.OrderID,
			Redirect: redirect.Location(),
			Draft:    newDraftView(draft, draft.Submission.Quote),
		})
	})
}

func CheckoutDiscard(sessions controllers.SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return withOrchestrator(sessions, logg, func(w http.ResponseWriter, r *http.Request, o *checkoutsvc.Orchestrator) {
		o.Discard(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func withOrchestrator(sessions controllers.SessionProvider, logg *logger.Logger, next func(http.ResponseWriter, *http.Request, *checkoutsvc.Orchestrator)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := controllers.SessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next(w, r, s.Checkout)
	}
}
