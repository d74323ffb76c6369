package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/internal/cart"
	"github.com/CoderRahul01/OrmeeHairs/pkg/enums"
	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/orders"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
	"github.com/CoderRahul01/OrmeeHairs/pkg/types"
	"github.com/CoderRahul01/OrmeeHairs/pkg/validation"
	"github.com/google/uuid"
)

// OrderCreator places an order and returns its id.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req orders.CreateRequest, idempotencyKey string) (string, error)
}

// SubmissionRecorder observes order-call outcomes.
type SubmissionRecorder interface {
	ObserveSubmission(outcome string, duration time.Duration)
}

// Params configure an Orchestrator.
type Params struct {
	Store     *cart.Store
	Orders    OrderCreator
	Navigator Navigator
	Rules     pricing.Rules
	Logger    *logger.Logger
	Metrics   SubmissionRecorder
	// NewKey generates Idempotency-Key values. Defaults to uuid.NewString.
	NewKey func() string
}

// Orchestrator drives one device's checkout draft from shipping to an
// order. All methods are safe for concurrent use; the order call runs
// without holding the orchestrator lock.
type Orchestrator struct {
	store   *cart.Store
	orders  OrderCreator
	nav     Navigator
	rules   pricing.Rules
	logg    *logger.Logger
	metrics SubmissionRecorder
	newKey  func() string

	mu    sync.Mutex
	draft *draft
}

func New(params Params) (*Orchestrator, error) {
	if params.Store == nil {
		return nil, errors.New("cart store required")
	}
	if params.Orders == nil {
		return nil, errors.New("order creator required")
	}
	nav := params.Navigator
	if nav == nil {
		nav = RedirectNavigator{}
	}
	rules := params.Rules
	if rules.FreeShippingThreshold.IsZero() && rules.FlatShippingFee.IsZero() && rules.TaxRate.IsZero() {
		rules = pricing.DefaultRules
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	newKey := params.NewKey
	if newKey == nil {
		newKey = uuid.NewString
	}
	return &Orchestrator{
		store:   params.Store,
		orders:  params.Orders,
		nav:     nav,
		rules:   rules,
		logg:    logg,
		metrics: params.Metrics,
		newKey:  newKey,
	}, nil
}

var (
	errNotStarted = pkgerrors.New(pkgerrors.CodeStateConflict, "checkout has not been started")
	errInFlight   = pkgerrors.New(pkgerrors.CodeConflict, "order submission already in progress")
	errCompleted  = pkgerrors.New(pkgerrors.CodeConflict, "order already placed for this checkout")
)

func emptyCartError() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty").
		WithDetails(map[string]any{"redirect": CartPath})
}

// Begin opens a draft at the shipping step, or resumes the open one. An empty
// cart discards any open draft and sends the shopper back to the cart.
func (o *Orchestrator) Begin(ctx context.Context) (Draft, error) {
	o.mu.Lock()
	if o.store.State().IsEmpty() {
		o.draft = nil
		o.mu.Unlock()
		o.nav.ToCart(ctx)
		return Draft{}, emptyCartError()
	}
	if o.draft != nil && !o.draft.Completed() {
		view := o.draft.Draft
		o.mu.Unlock()
		return view, nil
	}
	o.draft = newDraft()
	view := o.draft.Draft
	o.mu.Unlock()
	o.logg.Info(ctx, "checkout started")
	return view, nil
}

// Current returns the open draft, if any.
func (o *Orchestrator) Current() (Draft, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft == nil {
		return Draft{}, false
	}
	return o.draft.Draft, true
}

// Quote prices the cart as it stands now.
func (o *Orchestrator) Quote() pricing.Quote {
	return o.rules.Quote(o.store.State().Subtotal)
}

// SubmitShipping stores the shipping info and advances to payment. Missing
// fields leave the draft unchanged.
func (o *Orchestrator) SubmitShipping(ctx context.Context, info ShippingInfo) (Draft, error) {
	info = info.trimmed()
	if err := validation.Struct(info); err != nil {
		return o.view(), err
	}
	return o.edit(func(d *draft) error {
		d.Shipping = info
		d.Step = enums.CheckoutStepPayment
		return nil
	})
}

// SubmitPayment selects the payment method and advances to review. It is
// only accepted once shipping is complete.
func (o *Orchestrator) SubmitPayment(ctx context.Context, method string) (Draft, error) {
	parsed, err := enums.ParsePaymentMethod(method)
	if err != nil {
		return o.view(), pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").
			WithDetails(map[string]string{"payment_method": "must be one of card upi cod"})
	}
	return o.edit(func(d *draft) error {
		if d.Step == enums.CheckoutStepShipping {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shipping details are required first")
		}
		d.PaymentMethod = parsed
		d.Step = enums.CheckoutStepReview
		return nil
	})
}

// Back returns to an earlier step without discarding entered data.
func (o *Orchestrator) Back(ctx context.Context, to enums.CheckoutStep) (Draft, error) {
	return o.edit(func(d *draft) error {
		if !to.Before(d.Step) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "can only go back to an earlier step").
				WithDetails(map[string]any{"from": d.Step, "to": to})
		}
		d.Step = to
		return nil
	})
}

// Discard drops the draft. A response that arrives later is not applied to
// any draft.
func (o *Orchestrator) Discard(ctx context.Context) {
	o.mu.Lock()
	had := o.draft != nil
	o.draft = nil
	o.mu.Unlock()
	if had {
		o.logg.Info(ctx, "checkout discarded")
	}
}

// Submit places the order from the review step. At most one order call is in
// flight per draft; a concurrent Submit is rejected without calling out. On
// success the cart is cleared and the shopper is sent to the confirmation
// page. On failure the draft stays at review with the error message and the
// cart intact, ready for a retry.
func (o *Orchestrator) Submit(ctx context.Context) (Draft, error) {
	o.mu.Lock()
	d := o.draft
	if err := checkEditable(d); err != nil {
		o.mu.Unlock()
		return Draft{}, err
	}
	if d.Step != enums.CheckoutStepReview {
		view := d.Draft
		o.mu.Unlock()
		return view, pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be placed from the review step")
	}
	state := o.store.State()
	if state.IsEmpty() {
		view := d.Draft
		o.mu.Unlock()
		o.nav.ToCart(ctx)
		return view, emptyCartError()
	}

	quote := o.rules.Quote(state.Subtotal)
	req := buildRequest(state, d.Draft, quote)
	body, err := json.Marshal(req)
	if err != nil {
		o.mu.Unlock()
		return Draft{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order")
	}
	if d.key == "" || !bytes.Equal(body, d.lastBody) {
		d.key = o.newKey()
		d.lastBody = body
	}
	key := d.key
	d.Submission = Submission{Status: enums.SubmissionStatusInFlight, Quote: quote}
	o.mu.Unlock()

	ctx = o.logg.WithField(ctx, "idempotency_key", key)
	start := time.Now()
	orderID, callErr := o.orders.CreateOrder(ctx, req, key)
	elapsed := time.Since(start)

	o.mu.Lock()
	attached := o.draft == d
	if callErr != nil {
		message := failureMessage(callErr)
		d.Submission = Submission{Status: enums.SubmissionStatusFailed, Message: message, Quote: quote}
		view := d.Draft
		o.mu.Unlock()
		o.record(enums.SubmissionStatusFailed, elapsed)
		o.logg.Error(ctx, "order submission failed", callErr)
		return view, callErr
	}
	d.Submission = Submission{Status: enums.SubmissionStatusSucceeded, OrderID: orderID, Quote: quote}
	view := d.Draft
	o.mu.Unlock()

	o.record(enums.SubmissionStatusSucceeded, elapsed)
	ctx = o.logg.WithOrderID(ctx, orderID)
	o.logg.Info(ctx, "order placed")

	// The order exists, so the cart goes even when the draft was discarded.
	o.store.ClearCart()
	if attached {
		o.nav.ToConfirmation(ctx, orderID)
	}
	return view, nil
}

// edit applies fn to the open draft under the lock. Edits are rejected while
// an order call is in flight or after the order was placed.
func (o *Orchestrator) edit(fn func(d *draft) error) (Draft, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := checkEditable(o.draft); err != nil {
		if o.draft == nil {
			return Draft{}, err
		}
		return o.draft.Draft, err
	}
	if err := fn(o.draft); err != nil {
		return o.draft.Draft, err
	}
	if o.draft.Submission.Status == enums.SubmissionStatusFailed {
		o.draft.Submission = Submission{Status: enums.SubmissionStatusIdle}
	}
	return o.draft.Draft, nil
}

func (o *Orchestrator) view() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft == nil {
		return Draft{}
	}
	return o.draft.Draft
}

func (o *Orchestrator) record(outcome enums.SubmissionStatus, elapsed time.Duration) {
	if o.metrics != nil {
		o.metrics.ObserveSubmission(outcome.String(), elapsed)
	}
}

func checkEditable(d *draft) error {
	switch {
	case d == nil:
		return errNotStarted
	case d.InFlight():
		return errInFlight
	case d.Completed():
		return errCompleted
	}
	return nil
}

func failureMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return "Failed to place order. Please try again."
}

func buildRequest(state cart.State, d Draft, quote pricing.Quote) orders.CreateRequest {
	lines := make([]orders.Line, 0, len(state.Items))
	for _, item := range state.Items {
		lines = append(lines, orders.Line{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     types.NewMoney(item.UnitPrice),
			Quantity:  item.Quantity,
			Image:     item.ImageRef,
		})
	}
	s := d.Shipping
	return orders.CreateRequest{
		Items: lines,
		ShippingInfo: orders.ShippingInfo{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Email:     s.Email,
			Phone:     s.Phone,
			Address:   s.Address,
			City:      s.City,
			State:     s.State,
			Pincode:   s.Pincode,
		},
		PaymentMethod: d.PaymentMethod.String(),
		Subtotal:      types.NewMoney(quote.Subtotal),
		ShippingCost:  types.NewMoney(quote.Shipping),
		TaxAmount:     types.NewMoney(quote.Tax),
		Total:         types.NewMoney(quote.Total),
	}
}
