package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/repository"
)

// Repository is an in-process store used for development and tests.
// Data is lost when the process exits.
type Repository struct {
	mu        sync.RWMutex
	fuels     []models.Fuel
	tanks     []models.Tank
	prices    []models.FuelPriceEntry
	purchases []models.FuelPurchase
	dips      []models.DipEntry
	reports   []models.SalesReport
	accounts  []models.AccountEntry
}

var _ repository.Repository = (*Repository)(nil)

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) ListFuels(_ context.Context) ([]models.Fuel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Fuel(nil), r.fuels...), nil
}

func (r *Repository) GetFuel(_ context.Context, id string) (models.Fuel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.fuels {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Fuel{}, repository.ErrNotFound
}

func (r *Repository) SaveFuel(_ context.Context, fuel models.Fuel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.fuels {
		if r.fuels[i].ID == fuel.ID {
			r.fuels[i] = fuel
			return nil
		}
	}
	r.fuels = append(r.fuels, fuel)
	return nil
}

func (r *Repository) ListTanks(_ context.Context) ([]models.Tank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Tank(nil), r.tanks...), nil
}

func (r *Repository) GetTank(_ context.Context, id string) (models.Tank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tanks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Tank{}, repository.ErrNotFound
}

func (r *Repository) SaveTank(_ context.Context, tank models.Tank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tanks {
		if r.tanks[i].ID == tank.ID {
			r.tanks[i] = tank
			return nil
		}
	}
	r.tanks = append(r.tanks, tank)
	return nil
}

func (r *Repository) ListPriceEntries(_ context.Context) ([]models.FuelPriceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.FuelPriceEntry(nil), r.prices...), nil
}

func (r *Repository) AddPriceEntry(_ context.Context, entry models.FuelPriceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices = append(r.prices, entry)
	return nil
}

func (r *Repository) DeletePriceEntries(_ context.Context, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.prices[:0]
	removed := 0
	for _, e := range r.prices {
		if e.Date == date {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.prices = kept
	return removed, nil
}

func (r *Repository) ListPurchases(_ context.Context) ([]models.FuelPurchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.FuelPurchase(nil), r.purchases...), nil
}

func (r *Repository) GetPurchase(_ context.Context, id string) (models.FuelPurchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return models.FuelPurchase{}, repository.ErrNotFound
}

func (r *Repository) SavePurchase(_ context.Context, purchase models.FuelPurchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.purchases {
		if r.purchases[i].ID == purchase.ID {
			r.purchases[i] = purchase
			return nil
		}
	}
	r.purchases = append(r.purchases, purchase)
	return nil
}

func (r *Repository) DeletePurchase(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.purchases {
		if r.purchases[i].ID == id {
			r.purchases = append(r.purchases[:i], r.purchases[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *Repository) ListDipEntries(_ context.Context, tankID string) ([]models.DipEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.DipEntry
	for _, d := range r.dips {
		if tankID == "" || d.TankID == tankID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *Repository) SaveDipEntry(_ context.Context, entry models.DipEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dips = append(r.dips, entry)
	return nil
}

func (r *Repository) DeleteDipEntry(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.dips {
		if r.dips[i].ID == id {
			r.dips = append(r.dips[:i], r.dips[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *Repository) ListSalesReports(_ context.Context) ([]models.SalesReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.SalesReport(nil), r.reports...), nil
}

func (r *Repository) GetSalesReport(_ context.Context, id string) (models.SalesReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rep := range r.reports {
		if rep.ID == id {
			return rep, nil
		}
	}
	return models.SalesReport{}, repository.ErrNotFound
}

func (r *Repository) SaveSalesReport(_ context.Context, report models.SalesReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reports {
		if r.reports[i].ID == report.ID {
			r.reports[i] = report
			return nil
		}
	}
	r.reports = append(r.reports, report)
	return nil
}

func (r *Repository) ListAccountEntries(_ context.Context, account string) ([]models.AccountEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.AccountEntry
	for _, e := range r.accounts {
		if e.Account == account {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Repository) SaveAccountEntry(_ context.Context, entry models.AccountEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = append(r.accounts, entry)
	return nil
}

// Close is a no-op.
func (r *Repository) Close(_ context.Context) error {
	return nil
}
