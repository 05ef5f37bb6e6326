package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

func TestDecimalCodecKeepsExactValue(t *testing.T) {
	reg := NewRegistry()
	in := models.FuelPurchase{
		ID:       "p1",
		Date:     "2026-10-16",
		TankID:   "T1",
		FuelID:   "petrol",
		Quantity: 12000,
		Amount:   decimal.RequireFromString("1134567.89"),
	}

	raw, err := bson.MarshalWithRegistry(reg, in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if got := bson.Raw(raw).Lookup("amount").StringValue(); got != "1134567.89" {
		t.Fatalf("stored amount = %q, want string form", got)
	}

	var out models.FuelPurchase
	if err := bson.UnmarshalWithRegistry(reg, raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Amount.Equal(in.Amount) || out.ID != "p1" || out.Quantity != 12000 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecimalCodecReadsNumbers(t *testing.T) {
	reg := NewRegistry()
	raw, err := bson.Marshal(bson.M{"selling_price": 101.5, "cost_price": int32(97)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out models.FuelPrice
	if err := bson.UnmarshalWithRegistry(reg, raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.SellingPrice.Equal(decimal.RequireFromString("101.5")) || !out.CostPrice.Equal(decimal.NewFromInt(97)) {
		t.Fatalf("unexpected prices: %s/%s", out.SellingPrice, out.CostPrice)
	}
}
