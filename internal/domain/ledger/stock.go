package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// ApplyPurchase returns the tank with the delivered quantity added.
func ApplyPurchase(tank models.Tank, p models.FuelPurchase) models.Tank {
	tank.CurrentStock = decimal.NewFromFloat(tank.CurrentStock).
		Add(decimal.NewFromFloat(p.Quantity)).
		InexactFloat64()
	return tank
}

// ReversePurchase undoes ApplyPurchase for the same purchase.
func ReversePurchase(tank models.Tank, p models.FuelPurchase) models.Tank {
	tank.CurrentStock = decimal.NewFromFloat(tank.CurrentStock).
		Sub(decimal.NewFromFloat(p.Quantity)).
		InexactFloat64()
	return tank
}

// ApplyDip replaces the tank's stock with a physically measured volume.
func ApplyDip(tank models.Tank, volume float64) models.Tank {
	tank.CurrentStock = volume
	return tank
}
