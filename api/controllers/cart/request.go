package cart

import (
	"strings"

	cartsvc "github.com/CoderRahul01/OrmeeHairs/internal/cart"
	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
	"github.com/CoderRahul01/OrmeeHairs/pkg/types"
)

type addItemRequest struct {
	ID       string       `json:"id" validate:"required,notblank,max=128"`
	Name     string       `json:"name" validate:"required,notblank,max=256"`
	Price    *types.Money `json:"price" validate:"required"`
	Quantity *int         `json:"quantity" validate:"omitempty,max=9999"`
	Image    string       `json:"image" validate:"omitempty,max=2048"`
}

func (r addItemRequest) toItem() (cartsvc.Item, error) {
	if r.Price.IsNegative() {
		return cartsvc.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must be greater than or equal to 0"})
	}
	quantity := 1
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	return cartsvc.Item{
		ID:        strings.TrimSpace(r.ID),
		Name:      strings.TrimSpace(r.Name),
		UnitPrice: r.Price.Decimal,
		Quantity:  quantity,
		ImageRef:  strings.TrimSpace(r.Image),
	}, nil
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=9999"`
}

type toggleDrawerRequest struct {
	Open *bool `json:"open"`
}
