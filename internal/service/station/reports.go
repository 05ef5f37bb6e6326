package station

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/ledger"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// ListSalesReports returns every submitted DSR.
func (s *Service) ListSalesReports(ctx context.Context) ([]models.SalesReport, error) {
	return s.repo.ListSalesReports(ctx)
}

// SubmitSalesReport stores a DSR and returns its computed summary. Sales
// reports never change tank stock.
func (s *Service) SubmitSalesReport(ctx context.Context, report models.SalesReport) (models.SalesReport, models.ReportSummary, error) {
	if err := models.Validate(report); err != nil {
		return models.SalesReport{}, models.ReportSummary{}, err
	}
	report.ID = s.newID()

	err := s.withWriteLock(ctx, func() error {
		for _, r := range report.Readings {
			if err := s.requireFuel(ctx, r.FuelID); err != nil {
				return err
			}
		}
		if err := s.repo.SaveSalesReport(ctx, report); err != nil {
			return fmt.Errorf("save sales report: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.SalesReport{}, models.ReportSummary{}, err
	}

	summary, err := s.summarize(ctx, report)
	if err != nil {
		return report, models.ReportSummary{}, err
	}

	s.logger.Info("sales report submitted",
		zap.String("report_id", report.ID),
		zap.String("date", report.Date),
		zap.String("total_sales", summary.TotalSales.StringFixed(2)),
	)
	return report, summary, nil
}

// ReportSummary recomputes the summary of a stored DSR with current prices.
func (s *Service) ReportSummary(ctx context.Context, id string) (models.ReportSummary, error) {
	report, err := s.repo.GetSalesReport(ctx, id)
	if err != nil {
		return models.ReportSummary{}, notFound(err, "sales report", id)
	}
	return s.summarize(ctx, report)
}

// PeriodSummary aggregates every DSR dated within [from, to].
func (s *Service) PeriodSummary(ctx context.Context, from, to string) (models.ReportSummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.ReportSummary{}, err
	}
	return ledger.SummarizePeriod(snap.SalesReports, snap.Fuels, snap.PriceHistory, from, to), nil
}

// VarianceReport reconciles every tank as of today.
func (s *Service) VarianceReport(ctx context.Context) ([]models.StockVariance, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Reconcile(snap, s.Today()), nil
}

func (s *Service) summarize(ctx context.Context, report models.SalesReport) (models.ReportSummary, error) {
	fuels, err := s.repo.ListFuels(ctx)
	if err != nil {
		return models.ReportSummary{}, fmt.Errorf("load fuels: %w", err)
	}
	history, err := s.repo.ListPriceEntries(ctx)
	if err != nil {
		return models.ReportSummary{}, fmt.Errorf("load price history: %w", err)
	}
	return ledger.SummarizeReport(report, fuels, history), nil
}

// AccountLedger returns an account's entries with running balances.
func (s *Service) AccountLedger(ctx context.Context, account string) ([]models.LedgerLine, decimal.Decimal, error) {
	entries, err := s.repo.ListAccountEntries(ctx, account)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load account %s: %w", account, err)
	}
	return ledger.RunningBalances(entries), ledger.AccountBalance(entries), nil
}

// RecordAccountEntry appends a debit or credit line to an account ledger.
func (s *Service) RecordAccountEntry(ctx context.Context, entry models.AccountEntry) (models.AccountEntry, error) {
	if err := models.Validate(entry); err != nil {
		return models.AccountEntry{}, err
	}
	if entry.Debit.IsZero() && entry.Credit.IsZero() {
		return models.AccountEntry{}, ErrEmptyEntry
	}
	entry.ID = s.newID()

	err := s.withWriteLock(ctx, func() error {
		return s.repo.SaveAccountEntry(ctx, entry)
	})
	if err != nil {
		return models.AccountEntry{}, fmt.Errorf("save account entry: %w", err)
	}

	s.logger.Info("account entry recorded",
		zap.String("account", entry.Account),
		zap.String("debit", entry.Debit.String()),
		zap.String("credit", entry.Credit.String()),
	)
	return entry, nil
}
