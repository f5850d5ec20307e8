package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/plantops/internal/adapters/sqlite"
	"github.com/example/plantops/internal/ports/secondary"
)

func TestHolidayRepository_CreateListDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewHolidayRepository(db)
	ctx := context.Background()

	for _, h := range []*secondary.HolidayRecord{
		{Date: day(2026, 12, 25), Label: "Christmas Day"},
		{Date: day(2026, 12, 28), Label: "Boxing Day (substitute)"},
	} {
		if err := repo.Create(ctx, h); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	holidays, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("expected 2 holidays, got %d", len(holidays))
	}
	if !holidays[0].Date.Equal(day(2026, 12, 25)) {
		t.Errorf("expected first holiday 2026-12-25, got %v", holidays[0].Date)
	}

	if err := repo.Delete(ctx, day(2026, 12, 25)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, day(2026, 12, 25)); err == nil {
		t.Error("expected error deleting a missing holiday")
	}

	holidays, _ = repo.List(ctx)
	if len(holidays) != 1 {
		t.Errorf("expected 1 holiday after delete, got %d", len(holidays))
	}
}

func TestHolidayRepository_DuplicateDate(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewHolidayRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &secondary.HolidayRecord{Date: day(2026, 12, 25), Label: "Christmas"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, &secondary.HolidayRecord{Date: day(2026, 12, 25), Label: "Again"}); err == nil {
		t.Error("expected error for duplicate holiday date")
	}
}
