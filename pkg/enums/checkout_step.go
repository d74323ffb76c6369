package enums

import "fmt"

// CheckoutStep is the position of a draft in the linear checkout flow.
type CheckoutStep string

const (
	CheckoutStepShipping CheckoutStep = "shipping"
	CheckoutStepPayment  CheckoutStep = "payment"
	CheckoutStepReview   CheckoutStep = "review"
)

// ordered by flow position
var validCheckoutSteps = []CheckoutStep{
	CheckoutStepShipping,
	CheckoutStepPayment,
	CheckoutStepReview,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	return c.Position() >= 0
}

// Position returns the zero-based place of the step in the flow, or -1.
func (c CheckoutStep) Position() int {
	for i, candidate := range validCheckoutSteps {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Before reports whether c comes earlier in the flow than other.
func (c CheckoutStep) Before(other CheckoutStep) bool {
	return c.IsValid() && other.IsValid() && c.Position() < other.Position()
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range validCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
