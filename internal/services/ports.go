package services

import (
	"context"

	"stromkosten/internal/core"
	"stromkosten/internal/powerfox"
)

// Ports for the pipeline's collaborators.
type (
	// ReportFetcher lists the provider's devices and serves consumption
	// reports, either for a calendar day or for the rolling 24h window.
	ReportFetcher interface {
		Devices(ctx context.Context) ([]powerfox.Device, error)
		Report(ctx context.Context, deviceID string) (powerfox.Report, error)
		ReportForDay(ctx context.Context, deviceID string, date core.Date) (powerfox.Report, error)
	}

	// TemperatureFetcher serves the average outdoor temperature for a day.
	TemperatureFetcher interface {
		AverageTemperatureFor(ctx context.Context, date core.Date) (float64, error)
	}

	// DayStore is the persistence contract the pipeline depends on.
	DayStore interface {
		GetDay(ctx context.Context, date core.Date) (core.DayRecord, error)
		UpsertDay(ctx context.Context, candidate core.DayRecord) (core.DayRecord, error)
		GetDaysOfMonth(ctx context.Context) (core.MonthDays, error)
		GetSettings(ctx context.Context) (core.Settings, error)
	}

	// Notifier delivers rendered summaries (and failure reports) to the
	// notification channel.
	Notifier interface {
		PublishDailySummary(ctx context.Context, date core.Date, text string) error
	}

	// DayExporter mirrors persisted day records to an external document.
	DayExporter interface {
		AppendDay(ctx context.Context, d core.DayRecord) error
	}
)
