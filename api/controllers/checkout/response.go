package checkout

import (
	checkoutsvc "github.com/CoderRahul01/OrmeeHairs/internal/checkout"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
	"github.com/CoderRahul01/OrmeeHairs/pkg/types"
)

type submissionView struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

type quoteView struct {
	Subtotal     types.Money `json:"subtotal"`
	ShippingCost types.Money `json:"shipping_cost"`
	TaxAmount    types.Money `json:"tax_amount"`
	Total        types.Money `json:"total"`
}

type draftView struct {
	Step          string                   `json:"step"`
	ShippingInfo  checkoutsvc.ShippingInfo `json:"shipping_info"`
	PaymentMethod string                   `json:"payment_method"`
	Submission    submissionView           `json:"submission"`
	Quote         quoteView                `json:"quote"`
}

type submitResponse struct {
	OrderID  string    `json:"order_id"`
	Redirect string    `json:"redirect"`
	Draft    draftView `json:"draft"`
}

func newQuoteView(q pricing.Quote) quoteView {
	return quoteView{
		Subtotal:     types.NewMoney(q.Subtotal),
		ShippingCost: types.NewMoney(q.Shipping),
		TaxAmount:    types.NewMoney(q.Tax),
		Total:        types.NewMoney(q.Total),
	}
}

func newDraftView(d checkoutsvc.Draft, q pricing.Quote) draftView {
	return draftView{
		Step:          d.Step.String(),
		ShippingInfo:  d.Shipping,
		PaymentMethod: d.PaymentMethod.String(),
		Submission: submissionView{
			Status:  d.Submission.Status.String(),
			OrderID: d.Submission.OrderID,
			Message: d.Submission.Message,
		},
		Quote: newQuoteView(q),
	}
}
