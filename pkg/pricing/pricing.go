// Package pricing derives shipping, tax and totals for a cart subtotal.
//
// Every function here is pure: no clocks, no storage, no shared state. The
// cart page and the checkout submission both go through Quote so the numbers
// a shopper sees are the numbers sent with the order.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
)

// Rules are the storefront business rules, in whole currency units.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultRules is the canonical rule set: free shipping from 999, otherwise
// 149 flat, and 5% tax.
var DefaultRules = Rules{
	FreeShippingThreshold: decimal.NewFromInt(999),
	FlatShippingFee:       decimal.NewFromInt(149),
	TaxRate:               decimal.NewFromInt(5).Shift(-2),
}

// RulesFromConfig converts the env-driven pricing settings.
func RulesFromConfig(cfg config.PricingConfig) (Rules, error) {
	rate, err := cfg.TaxRate()
	if err != nil {
		return Rules{}, err
	}
	if cfg.FreeShippingThreshold < 0 || cfg.FlatShippingFee < 0 {
		return Rules{}, fmt.Errorf("shipping amounts must be non-negative")
	}
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(cfg.FreeShippingThreshold),
		FlatShippingFee:       decimal.NewFromInt(cfg.FlatShippingFee),
		TaxRate:               rate,
	}, nil
}

// ShippingCost is zero for an empty cart or a subtotal at or above the
// free-shipping threshold, and the flat fee otherwise.
func (r Rules) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.FlatShippingFee
}

// TaxAmount is the flat rate applied to the subtotal, rounded half-up to a
// whole currency unit.
func (r Rules) TaxAmount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	return subtotal.Mul(r.TaxRate).Round(0)
}

// GrandTotal is the exact sum of the displayed line items.
func GrandTotal(subtotal, shipping, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(shipping).Add(tax)
}

// Quote is the full price breakdown for one subtotal.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Quote computes every line of the breakdown from the subtotal.
func (r Rules) Quote(subtotal decimal.Decimal) Quote {
	shipping := r.ShippingCost(subtotal)
	tax := r.TaxAmount(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    GrandTotal(subtotal, shipping, tax),
	}
}

// ShippingCost applies DefaultRules.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	return DefaultRules.ShippingCost(subtotal)
}

// TaxAmount applies DefaultRules.
func TaxAmount(subtotal decimal.Decimal) decimal.Decimal {
	return DefaultRules.TaxAmount(subtotal)
}
