package cart

import (
	cartsvc "github.com/CoderRahul01/OrmeeHairs/internal/cart"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
	"github.com/CoderRahul01/OrmeeHairs/pkg/types"
)

type cartItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	UnitPrice types.Money `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	LineTotal types.Money `json:"line_total"`
	Image     string      `json:"image"`
}

// cartView is the cart as the storefront renders it, priced with the same
// rules checkout submits with.
type cartView struct {
	Items          []cartItem  `json:"items"`
	TotalItemCount int         `json:"total_item_count"`
	Subtotal       types.Money `json:"subtotal"`
	ShippingCost   types.Money `json:"shipping_cost"`
	TaxAmount      types.Money `json:"tax_amount"`
	Total          types.Money `json:"total"`
	IsDrawerOpen   bool        `json:"is_drawer_open"`
}

func newCartView(state cartsvc.State, rules pricing.Rules) cartView {
	quote := rules.Quote(state.Subtotal)
	items := make([]cartItem, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, cartItem{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: types.NewMoney(item.UnitPrice),
			Quantity:  item.Quantity,
			LineTotal: types.NewMoney(item.LineTotal()),
			Image:     item.Image(cartsvc.PlaceholderMedium),
		})
	}
	return cartView{
		Items:          items,
		TotalItemCount: state.TotalItemCount,
		Subtotal:       types.NewMoney(quote.Subtotal),
		ShippingCost:   types.NewMoney(quote.Shipping),
		TaxAmount:      types.NewMoney(quote.Tax),
		Total:          types.NewMoney(quote.Total),
		IsDrawerOpen:   state.IsDrawerOpen,
	}
}
