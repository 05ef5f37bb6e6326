package reporting

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/repository/sheets"
)

const (
	salesDataRange     = "DSR!A:F"
	salesDateRange     = "DSR!A:A"
	varianceDataRange  = "Variance!A:F"
	varianceDateRange  = "Variance!A:A"
	varianceSheetName  = "Variance"
	currencySymbol     = "₹"
	totalRowFuelMarker = "TOTAL"
)

// XLSXContentType is the MIME type of WriteVarianceXLSX output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Ledger is the read side of the station service used for reporting.
type Ledger interface {
	Today() string
	PeriodSummary(ctx context.Context, from, to string) (models.ReportSummary, error)
	VarianceReport(ctx context.Context) ([]models.StockVariance, error)
}

// Service turns ledger reads into manager-facing summaries and exports.
type Service struct {
	ledger   Ledger
	exporter sheets.Exporter
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. exporter may be nil when
// Google Sheets is not configured.
func NewService(ledger Ledger, exporter sheets.Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: ledger, exporter: exporter, logger: logger}
}

// SalesSummary formats the sales of a single day.
func (s *Service) SalesSummary(ctx context.Context, date string) (string, error) {
	if date == "" {
		date = s.ledger.Today()
	}
	summary, err := s.ledger.PeriodSummary(ctx, date, date)
	if err != nil {
		return "", fmt.Errorf("load sales for %s: %w", date, err)
	}
	return FormatSales(summary), nil
}

// StockSummary formats the current variance report.
func (s *Service) StockSummary(ctx context.Context) (string, error) {
	variances, err := s.ledger.VarianceReport(ctx)
	if err != nil {
		return "", fmt.Errorf("load variance report: %w", err)
	}
	return FormatVariance(variances), nil
}

// DailySummary combines the day's sales and the stock variance into one message.
func (s *Service) DailySummary(ctx context.Context, date string) (string, error) {
	sales, err := s.SalesSummary(ctx, date)
	if err != nil {
		return "", err
	}
	stock, err := s.StockSummary(ctx)
	if err != nil {
		return "", err
	}
	return sales + "\n\n" + stock, nil
}

// FormatSales renders a sales summary as plain text.
func FormatSales(summary models.ReportSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sales %s", summary.From)
	if summary.To != summary.From {
		fmt.Fprintf(&b, " to %s", summary.To)
	}

	if summary.Reports == 0 {
		b.WriteString(": no reports submitted.")
		return b.String()
	}

	fmt.Fprintf(&b, " (%d reports)\n", summary.Reports)
	for _, fuel := range summary.Fuels {
		fmt.Fprintf(&b, "%s: %.2f L, %s, est. profit %s\n",
			fuel.FuelID, fuel.TotalLitres, money(fuel.TotalSales), money(fuel.EstProfit))
	}
	fmt.Fprintf(&b, "Total %s, collected %s, difference %s",
		money(summary.TotalSales), money(summary.TotalCollected), money(summary.Difference))
	return b.String()
}

// FormatVariance renders a variance report as plain text.
func FormatVariance(variances []models.StockVariance) string {
	if len(variances) == 0 {
		return "Stock: no tanks configured."
	}

	var b strings.Builder
	b.WriteString("Stock variance")
	for _, v := range variances {
		fmt.Fprintf(&b, "\n%s (%s): book %.2f L, physical %.2f L, variation %+.2f L (%s)",
			v.TankID, v.FuelID, v.BookStock, v.PhysicalStock, v.VariationLitres, money(v.VariationValue))
	}
	return b.String()
}

// WriteVarianceXLSX writes the current variance report as a workbook.
func (s *Service) WriteVarianceXLSX(ctx context.Context, w io.Writer) error {
	variances, err := s.ledger.VarianceReport(ctx)
	if err != nil {
		return fmt.Errorf("load variance report: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Debug("close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", varianceSheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headers := []interface{}{"Tank", "Fuel", "Book stock (L)", "Physical stock (L)", "Variation (L)", "Variation value"}
	if err := f.SetSheetRow(varianceSheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(varianceSheetName, "A1", "F1", style)
	}

	for i, v := range variances {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{v.TankID, v.FuelID, v.BookStock, v.PhysicalStock, v.VariationLitres, v.VariationValue.InexactFloat64()}
		if err := f.SetSheetRow(varianceSheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(varianceSheetName, "A", "F", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportDay pushes the day's per-fuel sales and the variance report to Google
// Sheets. Days already present in a sheet are skipped. It returns the number
// of rows appended.
func (s *Service) ExportDay(ctx context.Context, date string) (int, error) {
	if s.exporter == nil {
		return 0, nil
	}
	if date == "" {
		date = s.ledger.Today()
	}

	appended := 0

	exported, err := s.alreadyExported(ctx, salesDateRange, date)
	if err != nil {
		return 0, err
	}
	if !exported {
		summary, err := s.ledger.PeriodSummary(ctx, date, date)
		if err != nil {
			return 0, fmt.Errorf("load sales for %s: %w", date, err)
		}
		if summary.Reports > 0 {
			rows := salesRows(date, summary)
			if err := s.exporter.AppendRows(ctx, salesDataRange, rows); err != nil {
				return 0, err
			}
			appended += len(rows)
		}
	}

	exported, err = s.alreadyExported(ctx, varianceDateRange, date)
	if err != nil {
		return appended, err
	}
	if !exported {
		variances, err := s.ledger.VarianceReport(ctx)
		if err != nil {
			return appended, fmt.Errorf("load variance report: %w", err)
		}
		rows := make([][]interface{}, 0, len(variances))
		for _, v := range variances {
			rows = append(rows, []interface{}{date, v.TankID, v.BookStock, v.PhysicalStock, v.VariationLitres, v.VariationValue.StringFixed(2)})
		}
		if len(rows) > 0 {
			if err := s.exporter.AppendRows(ctx, varianceDataRange, rows); err != nil {
				return appended, err
			}
			appended += len(rows)
		}
	}

	s.logger.Info("daily export finished", zap.String("date", date), zap.Int("rows", appended))
	return appended, nil
}

func (s *Service) alreadyExported(ctx context.Context, dateRange, date string) (bool, error) {
	rows, err := s.exporter.ReadRange(ctx, dateRange)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", dateRange, err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == date {
			return true, nil
		}
	}
	return false, nil
}

func salesRows(date string, summary models.ReportSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summary.Fuels)+1)
	for _, fuel := range summary.Fuels {
		rows = append(rows, []interface{}{date, fuel.FuelID, fuel.TotalLitres, fuel.TotalSales.StringFixed(2), fuel.EstProfit.StringFixed(2), ""})
	}
	return append(rows, []interface{}{date, totalRowFuelMarker, "", summary.TotalSales.StringFixed(2), "", summary.Difference.StringFixed(2)})
}

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + currencySymbol + d.Neg().StringFixed(2)
	}
	return currencySymbol + d.StringFixed(2)
}
