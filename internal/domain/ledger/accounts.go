package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// RunningBalances orders entries by date, keeping insertion order for equal
// dates, and attaches the balance (credits minus debits) after each line.
func RunningBalances(entries []models.AccountEntry) []models.LedgerLine {
	ordered := make([]models.AccountEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	lines := make([]models.LedgerLine, 0, len(ordered))
	balance := decimal.Zero
	for _, e := range ordered {
		balance = balance.Add(e.Credit).Sub(e.Debit)
		lines = append(lines, models.LedgerLine{AccountEntry: e, Balance: balance})
	}
	return lines
}

// AccountBalance is the closing balance of an account.
func AccountBalance(entries []models.AccountEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Credit).Sub(e.Debit)
	}
	return balance
}
