package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

func TestSaleLitres(t *testing.T) {
	tests := []struct {
		name    string
		reading models.MeterReading
		want    float64
	}{
		{name: "plain sale", reading: models.MeterReading{Opening: 1000, Closing: 1300}, want: 300},
		{name: "testing deducted", reading: models.MeterReading{Opening: 1000, Closing: 1300, Testing: 5}, want: 295},
		{name: "closing below opening floors at zero", reading: models.MeterReading{Opening: 1000, Closing: 999}, want: 0},
		{name: "testing above dispensed floors at zero", reading: models.MeterReading{Opening: 1000, Closing: 1002, Testing: 5}, want: 0},
		{name: "fractional readings stay exact", reading: models.MeterReading{Opening: 1000.12, Closing: 1234.56}, want: 234.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SaleLitres(tt.reading); got != tt.want {
				t.Fatalf("SaleLitres = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceReadingUsesOneResolvedPrice(t *testing.T) {
	reading := models.MeterReading{FuelID: "petrol", NozzleID: "N1", Opening: 100, Closing: 150}
	resolved := models.ResolvedPrice{SellingPrice: decimal.NewFromInt(102), CostPrice: decimal.NewFromInt(97)}

	sale := PriceReading(reading, resolved)
	if sale.SaleLitres != 50 {
		t.Fatalf("litres = %v, want 50", sale.SaleLitres)
	}
	if !sale.SaleAmount.Equal(decimal.NewFromInt(5100)) {
		t.Fatalf("amount = %s, want 5100", sale.SaleAmount)
	}
	if !sale.EstProfit.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("profit = %s, want 250", sale.EstProfit)
	}
}

func TestSummarizeReport(t *testing.T) {
	fuels := []models.Fuel{
		{ID: "petrol", SellingPrice: decimal.NewFromInt(100), CostPrice: decimal.NewFromInt(95)},
		{ID: "diesel", SellingPrice: decimal.NewFromInt(90), CostPrice: decimal.NewFromInt(86)},
	}
	history := []models.FuelPriceEntry{
		{Date: "2026-10-01", Prices: map[string]models.FuelPrice{"petrol": price(104, 98)}},
	}
	report := models.SalesReport{
		Date: "2026-10-16",
		Readings: []models.MeterReading{
			{FuelID: "petrol", NozzleID: "N1", Opening: 1000, Closing: 1200, Testing: 5},
			{FuelID: "diesel", NozzleID: "N3", Opening: 500, Closing: 600},
			{FuelID: "petrol", NozzleID: "N2", Opening: 2000, Closing: 2105},
		},
		Collections: models.Collections{Cash: decimal.NewFromInt(20000), Digital: decimal.NewFromInt(10000)},
	}

	summary := SummarizeReport(report, fuels, history)

	if len(summary.Sales) != 3 {
		t.Fatalf("expected 3 reading lines, got %d", len(summary.Sales))
	}
	if len(summary.Fuels) != 2 || summary.Fuels[0].FuelID != "petrol" || summary.Fuels[1].FuelID != "diesel" {
		t.Fatalf("unexpected fuel order: %+v", summary.Fuels)
	}

	petrol := summary.Fuels[0]
	if petrol.TotalLitres != 300 {
		t.Fatalf("petrol litres = %v, want 300", petrol.TotalLitres)
	}
	if !petrol.TotalSales.Equal(decimal.NewFromInt(31200)) {
		t.Fatalf("petrol sales = %s, want 31200", petrol.TotalSales)
	}
	if !petrol.EstProfit.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("petrol profit = %s, want 1800", petrol.EstProfit)
	}

	diesel := summary.Fuels[1]
	if !diesel.TotalSales.Equal(decimal.NewFromInt(9000)) || !diesel.EstProfit.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("diesel = %s/%s, want 9000/400 from default price", diesel.TotalSales, diesel.EstProfit)
	}

	if !summary.TotalSales.Equal(decimal.NewFromInt(40200)) {
		t.Fatalf("total sales = %s, want 40200", summary.TotalSales)
	}
	if !summary.Difference.Equal(decimal.NewFromInt(-10200)) {
		t.Fatalf("difference = %s, want -10200", summary.Difference)
	}
}

func TestSummarizePeriodFiltersByDate(t *testing.T) {
	fuels := []models.Fuel{{ID: "petrol", SellingPrice: decimal.NewFromInt(100), CostPrice: decimal.NewFromInt(95)}}
	reports := []models.SalesReport{
		{Date: "2026-09-30", Readings: []models.MeterReading{{FuelID: "petrol", NozzleID: "N1", Opening: 0, Closing: 50}}},
		{Date: "2026-10-01", Readings: []models.MeterReading{{FuelID: "petrol", NozzleID: "N1", Opening: 50, Closing: 150}}},
		{Date: "2026-10-31", Readings: []models.MeterReading{{FuelID: "petrol", NozzleID: "N1", Opening: 150, Closing: 170}}},
	}

	summary := SummarizePeriod(reports, fuels, nil, "2026-10-01", "2026-10-31")
	if summary.Reports != 2 {
		t.Fatalf("reports = %d, want 2", summary.Reports)
	}
	if len(summary.Sales) != 0 {
		t.Fatalf("period summary should not list reading lines")
	}
	if len(summary.Fuels) != 1 || summary.Fuels[0].TotalLitres != 120 {
		t.Fatalf("unexpected totals: %+v", summary.Fuels)
	}
}
