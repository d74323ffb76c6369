package checkout

import (
	"strings"

	"github.com/CoderRahul01/OrmeeHairs/pkg/enums"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
)

// ShippingInfo is the contact and delivery block of a draft. Every field is
// required; format checks are left to the order endpoint.
type ShippingInfo struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
}

func (s ShippingInfo) trimmed() ShippingInfo {
	return ShippingInfo{
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
		Email:     strings.TrimSpace(s.Email),
		Phone:     strings.TrimSpace(s.Phone),
		Address:   strings.TrimSpace(s.Address),
		City:      strings.TrimSpace(s.City),
		State:     strings.TrimSpace(s.State),
		Pincode:   strings.TrimSpace(s.Pincode),
	}
}

// Submission is the state of the order-creation call. Quote holds the totals
// sent with the most recent call.
type Submission struct {
	Status  enums.SubmissionStatus
	OrderID string
	Message string
	Quote   pricing.Quote
}

// Draft is a copy of the orchestrator's working checkout.
type Draft struct {
	Step          enums.CheckoutStep
	Shipping      ShippingInfo
	PaymentMethod enums.PaymentMethod
	Submission    Submission
}

// InFlight reports whether an order call is outstanding.
func (d Draft) InFlight() bool {
	return d.Submission.Status == enums.SubmissionStatusInFlight
}

// Completed reports whether the draft produced an order.
func (d Draft) Completed() bool {
	return d.Submission.Status == enums.SubmissionStatusSucceeded
}

// draft is the mutable record behind a Draft. lastBody and key pair the most
// recently submitted payload with its Idempotency-Key.
type draft struct {
	Draft
	lastBody []byte
	key      string
}

func newDraft() *draft {
	return &draft{Draft: Draft{
		Step:          enums.CheckoutStepShipping,
		PaymentMethod: enums.DefaultPaymentMethod,
		Submission:    Submission{Status: enums.SubmissionStatusIdle},
	}}
}
