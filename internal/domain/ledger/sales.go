package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// SaleLitres is the volume dispensed through a nozzle, floored at zero so a
// meter anomaly never produces a negative sale.
func SaleLitres(r models.MeterReading) float64 {
	return saleLitres(r).InexactFloat64()
}

// saleLitres does the subtraction in decimal so meter readings such as
// 1234.56 - 1000.12 do not pick up binary float noise.
func saleLitres(r models.MeterReading) decimal.Decimal {
	litres := decimal.NewFromFloat(r.Closing).
		Sub(decimal.NewFromFloat(r.Opening)).
		Sub(decimal.NewFromFloat(r.Testing))
	if litres.IsNegative() {
		return decimal.Zero
	}
	return litres
}

// PriceReading values a reading at an already resolved price. Selling and cost
// price always come from the same resolution.
func PriceReading(r models.MeterReading, price models.ResolvedPrice) models.ReadingSale {
	litres := saleLitres(r)
	return models.ReadingSale{
		FuelID:     r.FuelID,
		NozzleID:   r.NozzleID,
		SaleLitres: litres.InexactFloat64(),
		SaleAmount: litres.Mul(price.SellingPrice),
		EstProfit:  litres.Mul(price.SellingPrice.Sub(price.CostPrice)),
	}
}

// SummarizeReport prices every reading of a report at the report's date and
// totals them per fuel, in order of first appearance.
func SummarizeReport(report models.SalesReport, fuels []models.Fuel, history []models.FuelPriceEntry) models.ReportSummary {
	acc := newSalesAccumulator(fuels, history)
	acc.add(report, true)

	summary := acc.summary()
	summary.From = report.Date
	summary.To = report.Date
	return summary
}

// SummarizePeriod aggregates every report dated within [from, to]. An empty
// bound is open.
func SummarizePeriod(reports []models.SalesReport, fuels []models.Fuel, history []models.FuelPriceEntry, from, to string) models.ReportSummary {
	acc := newSalesAccumulator(fuels, history)
	for _, report := range reports {
		if from != "" && report.Date < from {
			continue
		}
		if to != "" && report.Date > to {
			continue
		}
		acc.add(report, false)
	}

	summary := acc.summary()
	summary.From = from
	summary.To = to
	return summary
}

type salesAccumulator struct {
	fuels     map[string]models.Fuel
	history   []models.FuelPriceEntry
	order     []string
	totals    map[string]*models.FuelSales
	lines     []models.ReadingSale
	reports   int
	collected decimal.Decimal
}

func newSalesAccumulator(fuels []models.Fuel, history []models.FuelPriceEntry) *salesAccumulator {
	byID := make(map[string]models.Fuel, len(fuels))
	for _, f := range fuels {
		byID[f.ID] = f
	}
	return &salesAccumulator{
		fuels:     byID,
		history:   history,
		totals:    make(map[string]*models.FuelSales),
		collected: decimal.Zero,
	}
}

func (a *salesAccumulator) add(report models.SalesReport, keepLines bool) {
	a.reports++
	a.collected = a.collected.Add(report.Collections.Total())

	prices := make(map[string]models.ResolvedPrice)
	for _, reading := range report.Readings {
		price, ok := prices[reading.FuelID]
		if !ok {
			// unknown fuels fall back to a zero price
			price = PriceForDate(reading.FuelID, report.Date, a.history, a.fuels[reading.FuelID].DefaultPrice())
			prices[reading.FuelID] = price
		}

		sale := PriceReading(reading, price)
		if keepLines {
			a.lines = append(a.lines, sale)
		}

		total, ok := a.totals[sale.FuelID]
		if !ok {
			total = &models.FuelSales{FuelID: sale.FuelID, TotalSales: decimal.Zero, EstProfit: decimal.Zero}
			a.totals[sale.FuelID] = total
			a.order = append(a.order, sale.FuelID)
		}
		total.TotalLitres = decimal.NewFromFloat(total.TotalLitres).Add(decimal.NewFromFloat(sale.SaleLitres)).InexactFloat64()
		total.TotalSales = total.TotalSales.Add(sale.SaleAmount)
		total.EstProfit = total.EstProfit.Add(sale.EstProfit)
	}
}

func (a *salesAccumulator) summary() models.ReportSummary {
	summary := models.ReportSummary{
		Reports:        a.reports,
		Sales:          a.lines,
		Fuels:          make([]models.FuelSales, 0, len(a.order)),
		TotalSales:     decimal.Zero,
		TotalCollected: a.collected,
	}
	for _, id := range a.order {
		total := *a.totals[id]
		summary.Fuels = append(summary.Fuels, total)
		summary.TotalSales = summary.TotalSales.Add(total.TotalSales)
	}
	summary.Difference = summary.TotalCollected.Sub(summary.TotalSales)
	return summary
}
