package station

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/ledger"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

// DipInput is a dip measurement as submitted by an operator. When Volume is
// nil it is derived from the tank's DIP chart.
type DipInput struct {
	TankID string   `json:"tank_id"`
	Date   string   `json:"date"`
	DipCm  float64  `json:"dip_cm"`
	Volume *float64 `json:"volume,omitempty" validate:"omitempty,gte=0"`
}

// ListPurchases returns every recorded delivery.
func (s *Service) ListPurchases(ctx context.Context) ([]models.FuelPurchase, error) {
	return s.repo.ListPurchases(ctx)
}

// RecordPurchase stores a delivery and raises the tank's book stock by its
// quantity. Both writes land or neither does.
func (s *Service) RecordPurchase(ctx context.Context, purchase models.FuelPurchase) (models.FuelPurchase, error) {
	if err := models.Validate(purchase); err != nil {
		return models.FuelPurchase{}, err
	}
	purchase.ID = s.newID()

	var stock float64
	err := s.withWriteLock(ctx, func() error {
		tank, err := s.repo.GetTank(ctx, purchase.TankID)
		if err != nil {
			return notFound(err, "tank", purchase.TankID)
		}
		if tank.FuelID != purchase.FuelID {
			return fmt.Errorf("tank %s holds %s, not %s: %w", tank.ID, tank.FuelID, purchase.FuelID, ErrFuelMismatch)
		}

		if err := s.repo.SavePurchase(ctx, purchase); err != nil {
			return fmt.Errorf("save purchase: %w", err)
		}
		updated := ledger.ApplyPurchase(tank, purchase)
		if err := s.repo.SaveTank(ctx, updated); err != nil {
			if rbErr := s.repo.DeletePurchase(ctx, purchase.ID); rbErr != nil {
				s.logger.Error("purchase rollback failed", zap.String("purchase_id", purchase.ID), zap.Error(rbErr))
			}
			return fmt.Errorf("update tank %s stock: %w", tank.ID, err)
		}
		stock = updated.CurrentStock
		return nil
	})
	if err != nil {
		return models.FuelPurchase{}, err
	}

	s.logger.Info("purchase recorded",
		zap.String("purchase_id", purchase.ID),
		zap.String("tank_id", purchase.TankID),
		zap.Float64("quantity", purchase.Quantity),
		zap.Float64("stock", stock),
	)
	return purchase, nil
}

// DeletePurchase removes a delivery and takes its quantity back out of the
// tank it was unloaded into.
func (s *Service) DeletePurchase(ctx context.Context, id string) (models.FuelPurchase, error) {
	var purchase models.FuelPurchase
	err := s.withWriteLock(ctx, func() error {
		var err error
		purchase, err = s.repo.GetPurchase(ctx, id)
		if err != nil {
			return notFound(err, "purchase", id)
		}
		tank, err := s.repo.GetTank(ctx, purchase.TankID)
		if err != nil {
			return notFound(err, "tank", purchase.TankID)
		}

		if err := s.repo.DeletePurchase(ctx, id); err != nil {
			return notFound(err, "purchase", id)
		}
		if err := s.repo.SaveTank(ctx, ledger.ReversePurchase(tank, purchase)); err != nil {
			if rbErr := s.repo.SavePurchase(ctx, purchase); rbErr != nil {
				s.logger.Error("purchase restore failed", zap.String("purchase_id", id), zap.Error(rbErr))
			}
			return fmt.Errorf("update tank %s stock: %w", tank.ID, err)
		}
		return nil
	})
	if err != nil {
		return models.FuelPurchase{}, err
	}

	s.logger.Info("purchase deleted", zap.String("purchase_id", id), zap.String("tank_id", purchase.TankID))
	return purchase, nil
}

// ListDipEntries returns the dips of tankID, or of every tank when empty.
func (s *Service) ListDipEntries(ctx context.Context, tankID string) ([]models.DipEntry, error) {
	return s.repo.ListDipEntries(ctx, tankID)
}

// RecordDip stores a physical measurement and sets the tank's stock to it.
func (s *Service) RecordDip(ctx context.Context, in DipInput) (models.DipEntry, error) {
	if err := models.Validate(in); err != nil {
		return models.DipEntry{}, err
	}
	entry := models.DipEntry{
		ID:     s.newID(),
		TankID: in.TankID,
		Date:   in.Date,
		DipCm:  in.DipCm,
	}
	if entry.Date == "" {
		entry.Date = s.Today()
	}
	if err := models.Validate(entry); err != nil {
		return models.DipEntry{}, err
	}

	err := s.withWriteLock(ctx, func() error {
		tank, err := s.repo.GetTank(ctx, entry.TankID)
		if err != nil {
			return notFound(err, "tank", entry.TankID)
		}

		if in.Volume != nil {
			entry.Volume = *in.Volume
		} else {
			entry.Volume = ledger.VolumeFromDip(entry.DipCm, s.chartFor(tank))
		}

		if err := s.repo.SaveDipEntry(ctx, entry); err != nil {
			return fmt.Errorf("save dip entry: %w", err)
		}
		if err := s.repo.SaveTank(ctx, ledger.ApplyDip(tank, entry.Volume)); err != nil {
			if rbErr := s.repo.DeleteDipEntry(ctx, entry.ID); rbErr != nil {
				s.logger.Error("dip rollback failed", zap.String("dip_id", entry.ID), zap.Error(rbErr))
			}
			return fmt.Errorf("update tank %s stock: %w", tank.ID, err)
		}
		return nil
	})
	if err != nil {
		return models.DipEntry{}, err
	}

	s.logger.Info("dip recorded",
		zap.String("tank_id", entry.TankID),
		zap.Float64("dip_cm", entry.DipCm),
		zap.Float64("volume", entry.Volume),
	)
	return entry, nil
}

func (s *Service) chartFor(tank models.Tank) models.CalibrationTable {
	if s.charts == nil || tank.CalibrationProfile == "" {
		s.logger.Warn("tank has no calibration profile; dip volume is zero", zap.String("tank_id", tank.ID))
		return nil
	}
	table := s.charts.Table(tank.CalibrationProfile)
	if len(table) == 0 {
		s.logger.Warn("calibration profile missing; dip volume is zero",
			zap.String("tank_id", tank.ID),
			zap.String("profile", tank.CalibrationProfile),
		)
	}
	return table
}
