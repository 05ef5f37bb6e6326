package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// Repository stores each station collection independently. Price entries
// must be listed in insertion order; the equal-date tie-break depends on it.
type Repository interface {
	ListFuels(ctx context.Context) ([]models.Fuel, error)
	GetFuel(ctx context.Context, id string) (models.Fuel, error)
	SaveFuel(ctx context.Context, fuel models.Fuel) error

	ListTanks(ctx context.Context) ([]models.Tank, error)
	GetTank(ctx context.Context, id string) (models.Tank, error)
	SaveTank(ctx context.Context, tank models.Tank) error

	ListPriceEntries(ctx context.Context) ([]models.FuelPriceEntry, error)
	AddPriceEntry(ctx context.Context, entry models.FuelPriceEntry) error
	// DeletePriceEntries removes every entry dated date and reports how many were removed.
	DeletePriceEntries(ctx context.Context, date string) (int, error)

	ListPurchases(ctx context.Context) ([]models.FuelPurchase, error)
	GetPurchase(ctx context.Context, id string) (models.FuelPurchase, error)
	SavePurchase(ctx context.Context, purchase models.FuelPurchase) error
	DeletePurchase(ctx context.Context, id string) error

	// ListDipEntries returns the dips of tankID, or of every tank when tankID is empty.
	ListDipEntries(ctx context.Context, tankID string) ([]models.DipEntry, error)
	SaveDipEntry(ctx context.Context, entry models.DipEntry) error
	DeleteDipEntry(ctx context.Context, id string) error

	ListSalesReports(ctx context.Context) ([]models.SalesReport, error)
	GetSalesReport(ctx context.Context, id string) (models.SalesReport, error)
	SaveSalesReport(ctx context.Context, report models.SalesReport) error

	ListAccountEntries(ctx context.Context, account string) ([]models.AccountEntry, error)
	SaveAccountEntry(ctx context.Context, entry models.AccountEntry) error

	Close(ctx context.Context) error
}
