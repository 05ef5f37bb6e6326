package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

func TestPurchaseRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		stock    float64
		quantity float64
		applied  float64
	}{
		{name: "whole litres", stock: 5000, quantity: 2000, applied: 7000},
		{name: "fractional litres", stock: 0.1, quantity: 0.2, applied: 0.3},
		{name: "empty tank", stock: 0, quantity: 12000, applied: 12000},
		{name: "fractional stock", stock: 5000.37, quantity: 500, applied: 5500.37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tank := models.Tank{ID: "T1", CurrentStock: tt.stock}
			p := models.FuelPurchase{Quantity: tt.quantity}

			got := ApplyPurchase(tank, p)
			if got.CurrentStock != tt.applied {
				t.Fatalf("ApplyPurchase = %v, want %v", got.CurrentStock, tt.applied)
			}
			if back := ReversePurchase(got, p); back.CurrentStock != tt.stock {
				t.Fatalf("ReversePurchase = %v, want %v", back.CurrentStock, tt.stock)
			}
		})
	}
}

func TestApplyDipReplacesStock(t *testing.T) {
	tank := ApplyDip(models.Tank{ID: "T1", CurrentStock: 7000}, 6850)
	if tank.CurrentStock != 6850 {
		t.Fatalf("stock = %v, want 6850", tank.CurrentStock)
	}
}

func TestRunningBalances(t *testing.T) {
	entries := []models.AccountEntry{
		{ID: "c", Date: "2026-10-03", Debit: decimal.NewFromInt(500)},
		{ID: "a", Date: "2026-10-01", Credit: decimal.NewFromInt(1000)},
		{ID: "b", Date: "2026-10-01", Debit: decimal.NewFromInt(200)},
	}

	lines := RunningBalances(entries)

	wantOrder := []string{"a", "b", "c"}
	wantBalance := []int64{1000, 800, 300}
	if len(lines) != len(wantOrder) {
		t.Fatalf("got %d lines", len(lines))
	}
	for i, line := range lines {
		if line.ID != wantOrder[i] {
			t.Fatalf("line %d = %s, want %s", i, line.ID, wantOrder[i])
		}
		if !line.Balance.Equal(decimal.NewFromInt(wantBalance[i])) {
			t.Fatalf("line %d balance = %s, want %d", i, line.Balance, wantBalance[i])
		}
	}
	if entries[0].ID != "c" {
		t.Fatal("input slice was reordered")
	}
	if got := AccountBalance(entries); !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("AccountBalance = %s, want 300", got)
	}
}
