package models

import "github.com/shopspring/decimal"

// MeterReading is one nozzle's totalizer readings for a shift.
type MeterReading struct {
	FuelID   string  `bson:"fuel_id" json:"fuel_id" validate:"required"`
	NozzleID string  `bson:"nozzle_id" json:"nozzle_id" validate:"required"`
	Opening  float64 `bson:"opening" json:"opening" validate:"gte=0"`
	Closing  float64 `bson:"closing" json:"closing" validate:"gte=0,gtefield=Opening"`
	Testing  float64 `bson:"testing" json:"testing" validate:"gte=0"`
}

// Collections is the money handed over at the end of a shift.
type Collections struct {
	Cash    decimal.Decimal `bson:"cash" json:"cash" validate:"gte=0"`
	Digital decimal.Decimal `bson:"digital" json:"digital" validate:"gte=0"`
	Credit  decimal.Decimal `bson:"credit" json:"credit" validate:"gte=0"`
}

// Total sums every collection channel.
func (c Collections) Total() decimal.Decimal {
	return c.Cash.Add(c.Digital).Add(c.Credit)
}

// SalesReport is a shift or daily sales report (DSR).
type SalesReport struct {
	ID          string         `bson:"_id" json:"id"`
	Date        string         `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Shift       string         `bson:"shift,omitempty" json:"shift,omitempty"`
	Readings    []MeterReading `bson:"readings" json:"readings" validate:"required,min=1,dive"`
	Collections Collections    `bson:"collections" json:"collections"`
}

// ReadingSale is the computed outcome of a single meter reading.
type ReadingSale struct {
	FuelID     string          `json:"fuel_id"`
	NozzleID   string          `json:"nozzle_id"`
	SaleLitres float64         `json:"sale_litres"`
	SaleAmount decimal.Decimal `json:"sale_amount"`
	EstProfit  decimal.Decimal `json:"est_profit"`
}

// FuelSales aggregates the sales of one fuel over a report or period.
type FuelSales struct {
	FuelID      string          `json:"fuel_id"`
	TotalLitres float64         `json:"total_litres"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	EstProfit   decimal.Decimal `json:"est_profit"`
}

// ReportSummary is the computed view of one or more sales reports.
type ReportSummary struct {
	From           string          `json:"from"`
	To             string          `json:"to"`
	Reports        int             `json:"reports"`
	Sales          []ReadingSale   `json:"sales,omitempty"`
	Fuels          []FuelSales     `json:"fuels"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	Difference     decimal.Decimal `json:"difference"`
}
