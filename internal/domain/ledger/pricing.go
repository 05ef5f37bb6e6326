package ledger

import "github.com/mamadbah2/fuelstation/internal/domain/models"

// PriceForDate returns the price of fuelID in effect on date (YYYY-MM-DD).
//
// The latest entry dated on or before date wins; among entries sharing that
// date the one inserted last wins. When that entry has no price for the fuel,
// or no entry qualifies, fallback is returned with a nil EffectiveDate.
func PriceForDate(fuelID, date string, history []models.FuelPriceEntry, fallback models.FuelPrice) models.ResolvedPrice {
	var latest *models.FuelPriceEntry
	for i := range history {
		entry := &history[i]
		if entry.Date > date {
			continue
		}
		if latest == nil || entry.Date >= latest.Date {
			latest = entry
		}
	}

	if latest != nil {
		if price, ok := latest.Prices[fuelID]; ok {
			effective := latest.Date
			return models.ResolvedPrice{
				SellingPrice:  price.SellingPrice,
				CostPrice:     price.CostPrice,
				EffectiveDate: &effective,
			}
		}
	}

	return models.ResolvedPrice{
		SellingPrice: fallback.SellingPrice,
		CostPrice:    fallback.CostPrice,
	}
}
