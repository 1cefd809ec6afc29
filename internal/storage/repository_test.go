package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"stromkosten/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testDay(date core.Date) core.DayRecord {
	return core.NewDayRecord(
		core.Report{Consumption: core.ConsumptionWindow{Sum: 12.5}},
		core.Report{Consumption: core.ConsumptionWindow{Sum: 30.0}},
		4.3,
		date,
	)
}

func TestUpsertDayInsertsWhenAbsent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := core.NewDate(2026, 1, 15)

	if _, err := repo.GetDay(ctx, date); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetDay before insert = %v, want ErrNotFound", err)
	}

	saved, err := repo.UpsertDay(ctx, testDay(date))
	if err != nil {
		t.Fatalf("UpsertDay: %v", err)
	}
	if saved.HeatingConsumption != 12.5 || saved.GeneralConsumption != 30.0 || saved.AverageTemperature != 4.3 {
		t.Errorf("saved record = %+v", saved)
	}

	got, err := repo.GetDay(ctx, date)
	if err != nil {
		t.Fatalf("GetDay after insert: %v", err)
	}
	if got.ID != saved.ID {
		t.Errorf("GetDay id = %s, want %s", got.ID, saved.ID)
	}
}

func TestUpsertDayIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := core.NewDate(2026, 1, 15)

	first, err := repo.UpsertDay(ctx, testDay(date))
	if err != nil {
		t.Fatalf("first UpsertDay: %v", err)
	}
	second, err := repo.UpsertDay(ctx, testDay(date))
	if err != nil {
		t.Fatalf("second UpsertDay: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("repeated upsert changed the row id: %s != %s", second.ID, first.ID)
	}
	if second != first {
		t.Errorf("repeated upsert with identical input returned a different record:\n%+v\n%+v", first, second)
	}

	days, err := repo.GetDaysAfter(ctx, date.AddDays(-1))
	if err != nil {
		t.Fatalf("GetDaysAfter: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("stored rows for %s = %d, want 1", date, len(days))
	}
}

func TestUpsertDayLatestValuesWin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := core.NewDate(2026, 1, 15)

	first, err := repo.UpsertDay(ctx, testDay(date))
	if err != nil {
		t.Fatalf("first UpsertDay: %v", err)
	}

	retry := testDay(date)
	retry.HeatingConsumption = 14.0
	retry.AverageTemperature = -1.5

	updated, err := repo.UpsertDay(ctx, retry)
	if err != nil {
		t.Fatalf("retry UpsertDay: %v", err)
	}

	if updated.ID != first.ID {
		t.Errorf("update changed the row id")
	}
	if updated.HeatingConsumption != 14.0 || updated.AverageTemperature != -1.5 {
		t.Errorf("stale values kept on retry: %+v", updated)
	}
}

func TestGetDaysAfterExcludesBoundary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	firstOfMonth := core.NewDate(2026, 3, 1)

	for _, d := range []core.Date{
		core.NewDate(2026, 2, 27),
		firstOfMonth,
		core.NewDate(2026, 3, 2),
		core.NewDate(2026, 3, 15),
	} {
		if _, err := repo.UpsertDay(ctx, testDay(d)); err != nil {
			t.Fatalf("UpsertDay %s: %v", d, err)
		}
	}

	days, err := repo.GetDaysAfter(ctx, firstOfMonth)
	if err != nil {
		t.Fatalf("GetDaysAfter: %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("GetDaysAfter returned %d rows, want 2", len(days))
	}
	for _, d := range days {
		if !d.Date.After(firstOfMonth.Time) {
			t.Errorf("row %s not strictly after %s", d.Date, firstOfMonth)
		}
	}
}

func TestUpsertYesterdayOverridesDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// The candidate carries a bogus date; the stored row must still land
	// on yesterday.
	candidate := testDay(core.NewDate(1999, 1, 1))
	saved, err := repo.UpsertYesterday(ctx, candidate)
	if err != nil {
		t.Fatalf("UpsertYesterday: %v", err)
	}

	yesterday := core.DateOf(time.Now()).AddDays(-1)
	if saved.Date != yesterday {
		t.Errorf("saved date = %s, want %s", saved.Date, yesterday)
	}

	got, err := repo.GetYesterday(ctx)
	if err != nil {
		t.Fatalf("GetYesterday: %v", err)
	}
	if got.ID != saved.ID {
		t.Errorf("GetYesterday id = %s, want %s", got.ID, saved.ID)
	}
}

func TestSettingsLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSettings(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetSettings before seed = %v, want ErrNotFound", err)
	}

	seeded, err := repo.SaveSettings(ctx, core.NewSettings(0.35, 0.25, 150, 100))
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != seeded {
		t.Errorf("GetSettings = %+v, want %+v", got, seeded)
	}

	updated, err := repo.UpdateSettings(ctx, got.ID, got.WithCostHeating(0.40))
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.CostHeating != 0.40 {
		t.Errorf("CostHeating = %v, want 0.40", updated.CostHeating)
	}
	if updated.CostGeneral != 0.25 {
		t.Errorf("CostGeneral changed unexpectedly: %v", updated.CostGeneral)
	}

	got, err = repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings after update: %v", err)
	}
	if got.CostHeating != 0.40 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateSettingsUnknownID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.UpdateSettings(ctx, uuid.New(), core.NewSettings(0.35, 0.25, 150, 100))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateSettings with unknown id = %v, want ErrNotFound", err)
	}
}
