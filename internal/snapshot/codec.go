package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CoderRahul01/OrmeeHairs/internal/cart"
	"github.com/CoderRahul01/OrmeeHairs/pkg/types"
	"github.com/CoderRahul01/OrmeeHairs/pkg/validation"
)

// Payload is the persisted form of a cart: items only, no totals or drawer flag.
type Payload struct {
	Items []Line `json:"items" validate:"required,dive"`
}

// Line is one persisted cart line.
type Line struct {
	ID       string      `json:"id" validate:"required"`
	Name     string      `json:"name"`
	Price    types.Money `json:"price"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image,omitempty"`
}

// Encode serializes the cart lines.
func Encode(items []cart.Item) ([]byte, error) {
	payload := Payload{Items: make([]Line, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, Line{
			ID:       item.ID,
			Name:     item.Name,
			Price:    types.NewMoney(item.UnitPrice),
			Quantity: item.Quantity,
			Image:    item.ImageRef,
		})
	}
	return json.Marshal(payload)
}

// Decode parses and validates a stored snapshot. Any failure means the
// snapshot must be treated as absent.
func Decode(data []byte) ([]cart.Item, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var payload Payload
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("decode snapshot: trailing data")
	}
	if err := validation.Struct(payload); err != nil {
		return nil, err
	}
	items := make([]cart.Item, 0, len(payload.Items))
	for i, line := range payload.Items {
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("decode snapshot: items[%d].price is negative", i)
		}
		items = append(items, cart.Item{
			ID:        line.ID,
			Name:      line.Name,
			UnitPrice: line.Price.Decimal,
			Quantity:  line.Quantity,
			ImageRef:  line.Image,
		})
	}
	return items, nil
}
