package models

import "github.com/shopspring/decimal"

// CalibrationPoint maps a dip depth in centimeters to a volume in litres.
type CalibrationPoint struct {
	Dip    float64 `yaml:"dip" json:"dip"`
	Volume float64 `yaml:"volume" json:"volume"`
}

// CalibrationTable is a DIP chart sorted ascending by Dip.
type CalibrationTable []CalibrationPoint

// Tank is an underground storage tank holding a single fuel.
type Tank struct {
	ID                 string  `bson:"_id" json:"id" validate:"required"`
	FuelID             string  `bson:"fuel_id" json:"fuel_id" validate:"required"`
	Capacity           float64 `bson:"capacity" json:"capacity" validate:"gt=0"`
	CurrentStock       float64 `bson:"current_stock" json:"current_stock" validate:"gte=0"`
	CalibrationProfile string  `bson:"calibration_profile,omitempty" json:"calibration_profile,omitempty"`
}

// DipEntry is one physical dip measurement and the volume derived from it.
type DipEntry struct {
	ID     string  `bson:"_id" json:"id"`
	TankID string  `bson:"tank_id" json:"tank_id" validate:"required"`
	Date   string  `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	DipCm  float64 `bson:"dip_cm" json:"dip_cm" validate:"gte=0"`
	Volume float64 `bson:"volume" json:"volume"`
}

// FuelPurchase is a supplier delivery unloaded into a tank.
type FuelPurchase struct {
	ID            string          `bson:"_id" json:"id"`
	Date          string          `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	TankID        string          `bson:"tank_id" json:"tank_id" validate:"required"`
	FuelID        string          `bson:"fuel_id" json:"fuel_id" validate:"required"`
	Quantity      float64         `bson:"quantity" json:"quantity" validate:"gt=0"`
	Amount        decimal.Decimal `bson:"amount" json:"amount" validate:"gt=0"`
	Supplier      string          `bson:"supplier,omitempty" json:"supplier,omitempty"`
	InvoiceNumber string          `bson:"invoice_number,omitempty" json:"invoice_number,omitempty"`
}

// StockVariance compares book stock against the last physical stock of a tank.
type StockVariance struct {
	TankID          string          `json:"tank_id"`
	FuelID          string          `json:"fuel_id"`
	BookStock       float64         `json:"book_stock"`
	PhysicalStock   float64         `json:"physical_stock"`
	VariationLitres float64         `json:"variation_litres"`
	VariationValue  decimal.Decimal `json:"variation_value"`
}
