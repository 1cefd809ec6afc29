package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"stromkosten/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns all persisted state: the days table (one row per
// calendar date) and the singleton settings row.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const dayColumns = "id, heating_consumption, general_consumption, average_temperature, date"

func scanDay(row interface{ Scan(...any) error }) (core.DayRecord, error) {
	var (
		d       core.DayRecord
		id      string
		dateStr string
	)
	if err := row.Scan(&id, &d.HeatingConsumption, &d.GeneralConsumption, &d.AverageTemperature, &dateStr); err != nil {
		return core.DayRecord{}, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return core.DayRecord{}, fmt.Errorf("parse day id: %w", err)
	}
	d.ID = parsedID

	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.DayRecord{}, err
	}
	d.Date = date

	return d, nil
}

// GetDay returns the record for the given date, or core.ErrNotFound.
func (r *SQLiteRepository) GetDay(ctx context.Context, date core.Date) (core.DayRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+dayColumns+" FROM days WHERE date = ?", date.String())

	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DayRecord{}, fmt.Errorf("day %s: %w", date, core.ErrNotFound)
	}
	if err != nil {
		return core.DayRecord{}, fmt.Errorf("get day %s: %w", date, err)
	}
	return d, nil
}

// GetYesterday is a wrapper around GetDay for the previous calendar day.
func (r *SQLiteRepository) GetYesterday(ctx context.Context) (core.DayRecord, error) {
	return r.GetDay(ctx, core.DateOf(time.Now()).AddDays(-1))
}

// UpsertDay saves the candidate record under its date: inserted when the
// date is new, otherwise a full-field update of the existing row. The
// conflict clause makes the upsert atomic, so concurrent runs for the same
// date cannot produce two rows, and the latest values always win. The stored
// row keeps its original identifier across updates.
func (r *SQLiteRepository) UpsertDay(ctx context.Context, candidate core.DayRecord) (core.DayRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO days (id, heating_consumption, general_consumption, average_temperature, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			heating_consumption = excluded.heating_consumption,
			general_consumption = excluded.general_consumption,
			average_temperature = excluded.average_temperature
		RETURNING `+dayColumns,
		candidate.ID.String(),
		candidate.HeatingConsumption,
		candidate.GeneralConsumption,
		candidate.AverageTemperature,
		candidate.Date.String(),
	)

	d, err := scanDay(row)
	if err != nil {
		return core.DayRecord{}, fmt.Errorf("upsert day %s: %w", candidate.Date, err)
	}

	slog.InfoContext(ctx, "Day record saved",
		"id", d.ID,
		"date", d.Date.String(),
		"heating_kwh", d.HeatingConsumption,
		"general_kwh", d.GeneralConsumption,
		"avg_temperature", d.AverageTemperature)

	return d, nil
}

// UpsertYesterday saves the candidate under yesterday's date regardless of
// the date it carries.
func (r *SQLiteRepository) UpsertYesterday(ctx context.Context, candidate core.DayRecord) (core.DayRecord, error) {
	candidate.Date = core.DateOf(time.Now()).AddDays(-1)
	return r.UpsertDay(ctx, candidate)
}

// GetDaysOfMonth returns this month's records, computed from wall-clock now.
// Rows dated exactly the 1st are excluded: the filter is strictly greater
// than the first of the month.
func (r *SQLiteRepository) GetDaysOfMonth(ctx context.Context) (core.MonthDays, error) {
	return r.GetDaysAfter(ctx, core.DateOf(time.Now()).FirstOfMonth())
}

// GetDaysAfter returns all records with date strictly after the given date,
// in insertion order.
func (r *SQLiteRepository) GetDaysAfter(ctx context.Context, after core.Date) (core.MonthDays, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dayColumns+" FROM days WHERE date > ?", after.String())
	if err != nil {
		return nil, fmt.Errorf("get days after %s: %w", after, err)
	}
	defer rows.Close()

	var days core.MonthDays
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	return days, nil
}

const settingsColumns = "id, cost_heating, cost_general, monthly_budget_heating, monthly_budget_general"

func scanSettings(row interface{ Scan(...any) error }) (core.Settings, error) {
	var (
		s  core.Settings
		id string
	)
	if err := row.Scan(&id, &s.CostHeating, &s.CostGeneral, &s.MonthlyBudgetHeating, &s.MonthlyBudgetGeneral); err != nil {
		return core.Settings{}, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return core.Settings{}, fmt.Errorf("parse settings id: %w", err)
	}
	s.ID = parsedID
	return s, nil
}

// GetSettings returns the single live settings row, or core.ErrNotFound
// when the row has not been seeded yet.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+settingsColumns+" FROM settings LIMIT 1")

	s, err := scanSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, fmt.Errorf("settings: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// SaveSettings inserts a new settings row.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, cost_heating, cost_general, monthly_budget_heating, monthly_budget_general)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID.String(), s.CostHeating, s.CostGeneral, s.MonthlyBudgetHeating, s.MonthlyBudgetGeneral,
	)
	if err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Settings saved", "id", s.ID)
	return s, nil
}

// UpdateSettings replaces all fields of the row with the given id. Updating
// a nonexistent id is an error, not an insert.
func (r *SQLiteRepository) UpdateSettings(ctx context.Context, id uuid.UUID, s core.Settings) (core.Settings, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE settings
		SET cost_heating = ?, cost_general = ?, monthly_budget_heating = ?, monthly_budget_general = ?
		WHERE id = ?`,
		s.CostHeating, s.CostGeneral, s.MonthlyBudgetHeating, s.MonthlyBudgetGeneral, id.String(),
	)
	if err != nil {
		return core.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Settings{}, fmt.Errorf("update settings rows affected: %w", err)
	}
	if affected == 0 {
		return core.Settings{}, fmt.Errorf("settings %s: %w", id, core.ErrNotFound)
	}

	s.ID = id
	slog.InfoContext(ctx, "Settings updated", "id", id)
	return s, nil
}
