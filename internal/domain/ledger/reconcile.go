package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// Snapshot is the read-only view of the station state a report is built from.
type Snapshot struct {
	Tanks        []models.Tank
	Fuels        []models.Fuel
	Purchases    []models.FuelPurchase
	SalesReports []models.SalesReport
	PriceHistory []models.FuelPriceEntry
}

// Reconcile compares each tank's book stock with its physical stock.
//
// Book stock is cumulative purchases minus cumulative sales of the tank's
// fuel, counted from a zero baseline and attributed per fuel rather than per
// tank. The variance is valued at the fuel's cost price on today
// (YYYY-MM-DD). Tanks whose fuel is unknown are left out.
func Reconcile(s Snapshot, today string) []models.StockVariance {
	fuels := make(map[string]models.Fuel, len(s.Fuels))
	for _, f := range s.Fuels {
		fuels[f.ID] = f
	}

	purchased := make(map[string]decimal.Decimal)
	for _, p := range s.Purchases {
		purchased[p.FuelID] = purchased[p.FuelID].Add(decimal.NewFromFloat(p.Quantity))
	}

	sold := make(map[string]decimal.Decimal)
	for _, report := range s.SalesReports {
		for _, r := range report.Readings {
			sold[r.FuelID] = sold[r.FuelID].Add(saleLitres(r))
		}
	}

	variances := make([]models.StockVariance, 0, len(s.Tanks))
	for _, tank := range s.Tanks {
		fuel, ok := fuels[tank.FuelID]
		if !ok {
			continue
		}

		book := purchased[fuel.ID].Sub(sold[fuel.ID])
		physical := decimal.NewFromFloat(tank.CurrentStock)
		variation := physical.Sub(book)
		cost := PriceForDate(fuel.ID, today, s.PriceHistory, fuel.DefaultPrice()).CostPrice

		variances = append(variances, models.StockVariance{
			TankID:          tank.ID,
			FuelID:          fuel.ID,
			BookStock:       book.InexactFloat64(),
			PhysicalStock:   tank.CurrentStock,
			VariationLitres: variation.InexactFloat64(),
			VariationValue:  variation.Mul(cost),
		})
	}

	return variances
}
