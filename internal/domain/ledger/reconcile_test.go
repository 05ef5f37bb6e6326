package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

func TestReconcile(t *testing.T) {
	snapshot := Snapshot{
		Tanks: []models.Tank{
			{ID: "T1", FuelID: "petrol", CurrentStock: 7000},
			{ID: "T2", FuelID: "kerosene", CurrentStock: 900},
			{ID: "T3", FuelID: "diesel", CurrentStock: 1000},
		},
		Fuels: []models.Fuel{
			{ID: "petrol", CostPrice: decimal.NewFromInt(95)},
			{ID: "diesel", CostPrice: decimal.NewFromInt(86)},
		},
		Purchases: []models.FuelPurchase{
			{FuelID: "petrol", TankID: "T1", Quantity: 2000},
			{FuelID: "diesel", TankID: "T3", Quantity: 1200},
		},
		SalesReports: []models.SalesReport{
			{Date: "2026-10-15", Readings: []models.MeterReading{
				{FuelID: "petrol", Opening: 100, Closing: 400},
				{FuelID: "diesel", Opening: 10, Closing: 160},
			}},
			{Date: "2026-10-16", Readings: []models.MeterReading{
				{FuelID: "diesel", Opening: 160, Closing: 100}, // anomaly counts as zero
			}},
		},
		PriceHistory: []models.FuelPriceEntry{
			{Date: "2026-10-10", Prices: map[string]models.FuelPrice{"diesel": price(92, 88)}},
			{Date: "2026-10-20", Prices: map[string]models.FuelPrice{"diesel": price(93, 89)}},
		},
	}

	got := Reconcile(snapshot, "2026-10-16")

	if len(got) != 2 {
		t.Fatalf("expected tank without fuel to be skipped, got %d variances", len(got))
	}

	petrol := got[0]
	if petrol.TankID != "T1" || petrol.BookStock != 1700 || petrol.PhysicalStock != 7000 || petrol.VariationLitres != 5300 {
		t.Fatalf("unexpected petrol variance: %+v", petrol)
	}
	if !petrol.VariationValue.Equal(decimal.NewFromInt(5300 * 95)) {
		t.Fatalf("petrol value = %s", petrol.VariationValue)
	}

	diesel := got[1]
	if diesel.TankID != "T3" || diesel.BookStock != 1050 || diesel.VariationLitres != -50 {
		t.Fatalf("unexpected diesel variance: %+v", diesel)
	}
	if !diesel.VariationValue.Equal(decimal.NewFromInt(-50 * 88)) {
		t.Fatalf("diesel value = %s, want cost from the entry in effect today", diesel.VariationValue)
	}
}

func TestPurchaseSaleVarianceScenario(t *testing.T) {
	tank := models.Tank{ID: "T1", FuelID: "petrol", CurrentStock: 5000}
	purchase := models.FuelPurchase{TankID: "T1", FuelID: "petrol", Quantity: 2000}
	tank = ApplyPurchase(tank, purchase)
	if tank.CurrentStock != 7000 {
		t.Fatalf("stock = %v, want 7000", tank.CurrentStock)
	}

	snapshot := Snapshot{
		Tanks:     []models.Tank{tank},
		Fuels:     []models.Fuel{{ID: "petrol", CostPrice: decimal.NewFromInt(1)}},
		Purchases: []models.FuelPurchase{purchase},
		SalesReports: []models.SalesReport{{Date: "2026-10-16", Readings: []models.MeterReading{
			{FuelID: "petrol", NozzleID: "N1", Opening: 0, Closing: 300},
		}}},
	}

	got := Reconcile(snapshot, "2026-10-16")
	if len(got) != 1 || got[0].VariationLitres != 5300 {
		t.Fatalf("unexpected variance: %+v", got)
	}
}
