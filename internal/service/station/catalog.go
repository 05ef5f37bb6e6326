package station

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/ledger"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/repository"
)

// ListFuels returns every configured fuel.
func (s *Service) ListFuels(ctx context.Context) ([]models.Fuel, error) {
	return s.repo.ListFuels(ctx)
}

// CreateFuel registers a new fuel with its default prices.
func (s *Service) CreateFuel(ctx context.Context, fuel models.Fuel) (models.Fuel, error) {
	if err := models.Validate(fuel); err != nil {
		return models.Fuel{}, err
	}

	err := s.withWriteLock(ctx, func() error {
		if _, err := s.repo.GetFuel(ctx, fuel.ID); err == nil {
			return fmt.Errorf("fuel %s: %w", fuel.ID, ErrAlreadyExists)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load fuel %s: %w", fuel.ID, err)
		}
		return s.repo.SaveFuel(ctx, fuel)
	})
	if err != nil {
		return models.Fuel{}, err
	}

	s.logger.Info("fuel created", zap.String("fuel_id", fuel.ID))
	return fuel, nil
}

// ListTanks returns every tank with its current book stock.
func (s *Service) ListTanks(ctx context.Context) ([]models.Tank, error) {
	return s.repo.ListTanks(ctx)
}

// CreateTank registers a tank. The fuel must exist and the calibration
// profile, when given, must be known.
func (s *Service) CreateTank(ctx context.Context, tank models.Tank) (models.Tank, error) {
	if err := models.Validate(tank); err != nil {
		return models.Tank{}, err
	}
	if tank.CalibrationProfile != "" && (s.charts == nil || !s.charts.Has(tank.CalibrationProfile)) {
		return models.Tank{}, fmt.Errorf("%q: %w", tank.CalibrationProfile, ErrUnknownProfile)
	}

	err := s.withWriteLock(ctx, func() error {
		if err := s.requireFuel(ctx, tank.FuelID); err != nil {
			return err
		}
		if _, err := s.repo.GetTank(ctx, tank.ID); err == nil {
			return fmt.Errorf("tank %s: %w", tank.ID, ErrAlreadyExists)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load tank %s: %w", tank.ID, err)
		}
		return s.repo.SaveTank(ctx, tank)
	})
	if err != nil {
		return models.Tank{}, err
	}

	s.logger.Info("tank created", zap.String("tank_id", tank.ID), zap.String("fuel_id", tank.FuelID))
	return tank, nil
}

// ListPriceEntries returns the price history in insertion order.
func (s *Service) ListPriceEntries(ctx context.Context) ([]models.FuelPriceEntry, error) {
	return s.repo.ListPriceEntries(ctx)
}

// AddPriceEntry appends a dated price change. Several entries may share a
// date; the one added last wins.
func (s *Service) AddPriceEntry(ctx context.Context, entry models.FuelPriceEntry) (models.FuelPriceEntry, error) {
	if err := models.Validate(entry); err != nil {
		return models.FuelPriceEntry{}, err
	}

	err := s.withWriteLock(ctx, func() error {
		for fuelID := range entry.Prices {
			if err := s.requireFuel(ctx, fuelID); err != nil {
				return err
			}
		}
		return s.repo.AddPriceEntry(ctx, entry)
	})
	if err != nil {
		return models.FuelPriceEntry{}, err
	}

	s.logger.Info("price entry added", zap.String("date", entry.Date), zap.Int("fuels", len(entry.Prices)))
	return entry, nil
}

// DeletePriceEntry removes every price entry dated date.
func (s *Service) DeletePriceEntry(ctx context.Context, date string) (int, error) {
	var removed int
	err := s.withWriteLock(ctx, func() error {
		n, err := s.repo.DeletePriceEntries(ctx, date)
		if err != nil {
			return fmt.Errorf("delete price entries %s: %w", date, err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, fmt.Errorf("price entry %s: %w", date, ErrNotFound)
	}

	s.logger.Info("price entries deleted", zap.String("date", date), zap.Int("removed", removed))
	return removed, nil
}

// CurrentPrice resolves the price of fuelID on date, or today when date is empty.
func (s *Service) CurrentPrice(ctx context.Context, fuelID, date string) (models.ResolvedPrice, error) {
	fuel, err := s.repo.GetFuel(ctx, fuelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.ResolvedPrice{}, fmt.Errorf("%s: %w", fuelID, ErrUnknownFuel)
		}
		return models.ResolvedPrice{}, fmt.Errorf("load fuel %s: %w", fuelID, err)
	}
	history, err := s.repo.ListPriceEntries(ctx)
	if err != nil {
		return models.ResolvedPrice{}, fmt.Errorf("load price history: %w", err)
	}
	if date == "" {
		date = s.Today()
	}
	return ledger.PriceForDate(fuelID, date, history, fuel.DefaultPrice()), nil
}

func (s *Service) requireFuel(ctx context.Context, fuelID string) error {
	if _, err := s.repo.GetFuel(ctx, fuelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", fuelID, ErrUnknownFuel)
		}
		return fmt.Errorf("load fuel %s: %w", fuelID, err)
	}
	return nil
}
