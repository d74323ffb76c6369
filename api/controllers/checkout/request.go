package checkout

type paymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type backRequest struct {
	Step string `json:"step" validate:"required,oneof=shipping payment"`
}
