package station

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/ledger"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/repository"
	"github.com/mamadbah2/fuelstation/pkg/lock"
)

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a fuel or tank id is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownFuel indicates a record references a fuel that is not configured.
	ErrUnknownFuel = errors.New("unknown fuel")
	// ErrUnknownProfile indicates a tank references a missing calibration profile.
	ErrUnknownProfile = errors.New("unknown calibration profile")
	// ErrFuelMismatch indicates a purchase was routed to a tank holding another fuel.
	ErrFuelMismatch = errors.New("purchase fuel does not match tank fuel")
	// ErrEmptyEntry indicates an account entry carries neither a debit nor a credit.
	ErrEmptyEntry = errors.New("entry needs a debit or a credit")
)

const writeLockKey = "station-ledger"

// Calibrations resolves a tank's calibration profile to its DIP chart.
type Calibrations interface {
	Table(profile string) models.CalibrationTable
	Has(profile string) bool
}

// Service owns every use case that reads or changes the station ledgers.
// Writes are serialized through a Locker so at most one runs at a time.
type Service struct {
	repo   repository.Repository
	charts Calibrations
	locker lock.Locker
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for "today" in reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService wires the station service.
func NewService(repo repository.Repository, charts Calibrations, locker lock.Locker, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	s := &Service{
		repo:   repo,
		charts: charts,
		locker: locker,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar date according to the service clock.
func (s *Service) Today() string {
	return models.DayOf(s.now())
}

// Snapshot loads an immutable copy of everything the reports need.
func (s *Service) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	var (
		snap ledger.Snapshot
		err  error
	)
	if snap.Tanks, err = s.repo.ListTanks(ctx); err != nil {
		return snap, fmt.Errorf("load tanks: %w", err)
	}
	if snap.Fuels, err = s.repo.ListFuels(ctx); err != nil {
		return snap, fmt.Errorf("load fuels: %w", err)
	}
	if snap.Purchases, err = s.repo.ListPurchases(ctx); err != nil {
		return snap, fmt.Errorf("load purchases: %w", err)
	}
	if snap.SalesReports, err = s.repo.ListSalesReports(ctx); err != nil {
		return snap, fmt.Errorf("load sales reports: %w", err)
	}
	if snap.PriceHistory, err = s.repo.ListPriceEntries(ctx); err != nil {
		return snap, fmt.Errorf("load price history: %w", err)
	}
	return snap, nil
}

// withWriteLock runs fn while holding the ledger write lock.
func (s *Service) withWriteLock(ctx context.Context, fn func() error) error {
	release, err := s.locker.Acquire(ctx, writeLockKey)
	if err != nil {
		return fmt.Errorf("acquire ledger lock: %w", err)
	}
	defer release()
	return fn()
}

func notFound(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %s: %w", what, id, err)
}
