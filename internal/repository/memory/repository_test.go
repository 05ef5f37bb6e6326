package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/repository"
)

func TestSaveReplacesByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_ = repo.SaveTank(ctx, models.Tank{ID: "T1", FuelID: "petrol", CurrentStock: 100})
	_ = repo.SaveTank(ctx, models.Tank{ID: "T2", FuelID: "diesel"})
	_ = repo.SaveTank(ctx, models.Tank{ID: "T1", FuelID: "petrol", CurrentStock: 250})

	tanks, _ := repo.ListTanks(ctx)
	if len(tanks) != 2 || tanks[0].ID != "T1" || tanks[0].CurrentStock != 250 {
		t.Fatalf("unexpected tanks: %+v", tanks)
	}

	if _, err := repo.GetTank(ctx, "T9"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPriceEntriesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	for _, date := range []string{"2026-03-01", "2026-01-01", "2026-03-01"} {
		_ = repo.AddPriceEntry(ctx, models.FuelPriceEntry{Date: date})
	}

	entries, _ := repo.ListPriceEntries(ctx)
	if len(entries) != 3 || entries[1].Date != "2026-01-01" {
		t.Fatalf("unexpected order: %+v", entries)
	}

	removed, _ := repo.DeletePriceEntries(ctx, "2026-03-01")
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	entries, _ = repo.ListPriceEntries(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected one entry left, got %d", len(entries))
	}
}

func TestDeletePurchase(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_ = repo.SavePurchase(ctx, models.FuelPurchase{ID: "p1"})

	listed, _ := repo.ListPurchases(ctx)
	if err := repo.DeletePurchase(ctx, "p1"); err != nil {
		t.Fatalf("DeletePurchase: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("previously listed slice must not change")
	}
	if err := repo.DeletePurchase(ctx, "p1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilteredLists(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_ = repo.SaveDipEntry(ctx, models.DipEntry{ID: "d1", TankID: "T1"})
	_ = repo.SaveDipEntry(ctx, models.DipEntry{ID: "d2", TankID: "T2"})
	_ = repo.SaveAccountEntry(ctx, models.AccountEntry{ID: "a1", Account: "hdfc"})
	_ = repo.SaveAccountEntry(ctx, models.AccountEntry{ID: "a2", Account: "manager"})

	if dips, _ := repo.ListDipEntries(ctx, "T2"); len(dips) != 1 || dips[0].ID != "d2" {
		t.Fatalf("unexpected dips: %+v", dips)
	}
	if dips, _ := repo.ListDipEntries(ctx, ""); len(dips) != 2 {
		t.Fatalf("expected all dips, got %d", len(dips))
	}
	if entries, _ := repo.ListAccountEntries(ctx, "hdfc"); len(entries) != 1 || entries[0].ID != "a1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
