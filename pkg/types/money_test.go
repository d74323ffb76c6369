package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyEncodesAsNumber(t *testing.T) {
	payload := struct {
		Price Money `json:"price"`
	}{Price: NewMoney(decimal.RequireFromString("249.50"))}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"price":249.5}` {
		t.Fatalf("unexpected encoding %s", raw)
	}
}

func TestMoneyDecodesNumbersAndStrings(t *testing.T) {
	var decoded struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":200,"b":"149.25"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.A.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected a %s", decoded.A)
	}
	if !decoded.B.Equal(decimal.RequireFromString("149.25")) {
		t.Fatalf("unexpected b %s", decoded.B)
	}
}
