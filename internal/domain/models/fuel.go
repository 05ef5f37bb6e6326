package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date layout used by every dated entity.
// Dates are kept as ISO strings so they compare lexicographically.
const DateLayout = "2006-01-02"

// DayOf formats t as a calendar date in its own location.
func DayOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Fuel is a product sold at the station (petrol, diesel, ...).
type Fuel struct {
	ID           string          `bson:"_id" json:"id" validate:"required"`
	Name         string          `bson:"name" json:"name" validate:"required"`
	SellingPrice decimal.Decimal `bson:"selling_price" json:"selling_price" validate:"gte=0"`
	CostPrice    decimal.Decimal `bson:"cost_price" json:"cost_price" validate:"gte=0"`
}

// DefaultPrice is the fuel's own price, used when no history entry applies.
func (f Fuel) DefaultPrice() FuelPrice {
	return FuelPrice{SellingPrice: f.SellingPrice, CostPrice: f.CostPrice}
}

// FuelPrice pairs the selling and cost price per litre.
type FuelPrice struct {
	SellingPrice decimal.Decimal `bson:"selling_price" json:"selling_price" validate:"gte=0"`
	CostPrice    decimal.Decimal `bson:"cost_price" json:"cost_price" validate:"gte=0"`
}

// FuelPriceEntry records the prices that took effect on Date.
type FuelPriceEntry struct {
	Date   string               `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Prices map[string]FuelPrice `bson:"prices" json:"prices" validate:"required,min=1,dive"`
}

// ResolvedPrice is the price in effect for a fuel on a given day.
// EffectiveDate is nil when the fuel's default price was used.
type ResolvedPrice struct {
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	EffectiveDate *string         `json:"effective_date"`
}
