package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"stromkosten/internal/core"
	applog "stromkosten/internal/log"
)

// Pipeline orchestrates one calendar day's ingestion: classify devices,
// fetch both role-reports and the average temperature, build the day record,
// persist it and report the summary. A day, once persisted, is never
// re-fetched from upstream.
type Pipeline struct {
	store      DayStore
	classifier *Classifier
	temps      TemperatureFetcher
	notifier   Notifier    // optional
	exporter   DayExporter // optional
	logger     *applog.Logger
}

func NewPipeline(store DayStore, classifier *Classifier, temps TemperatureFetcher, notifier Notifier, exporter DayExporter, logger *applog.Logger) *Pipeline {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentPipeline)
	}
	return &Pipeline{
		store:      store,
		classifier: classifier,
		temps:      temps,
		notifier:   notifier,
		exporter:   exporter,
		logger:     logger,
	}
}

// RunDaily ingests yesterday relative to now. Failures are reported through
// the notification channel before being returned; no failure is silent.
func (p *Pipeline) RunDaily(ctx context.Context, now time.Time) error {
	target := core.DateOf(now).AddDays(-1)

	// Cached-day check before any network call: if the date is already
	// persisted we go straight to reporting with the stored record.
	existing, err := p.store.GetDay(ctx, target)
	if err == nil {
		p.logger.InfoContext(ctx, "Day already persisted, skipping upstream fetch", "date", target.String())
		return p.report(ctx, existing)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return p.fail(ctx, target, fmt.Errorf("check existing day: %w", err))
	}

	record, err := p.ingest(ctx, target)
	if err != nil {
		return p.fail(ctx, target, err)
	}

	saved, err := p.store.UpsertDay(ctx, record)
	if err != nil {
		return p.fail(ctx, target, fmt.Errorf("persist day: %w", err))
	}

	if p.exporter != nil {
		// Export mirrors the record to an external document; a failed
		// export never fails the run.
		if err := p.exporter.AppendDay(ctx, saved); err != nil {
			p.logger.WarnContext(ctx, "Day export failed", "date", target.String(), "error", err)
		}
	}

	return p.report(ctx, saved)
}

// ingest fetches both role-reports and the temperature concurrently and
// builds the day record. Both fetches must complete before building.
func (p *Pipeline) ingest(ctx context.Context, date core.Date) (core.DayRecord, error) {
	var (
		reports ClassifiedReports
		avgTemp float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reports, err = p.classifier.ClassifyForDay(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		avgTemp, err = p.temps.AverageTemperatureFor(gctx, date)
		if err != nil {
			return fmt.Errorf("fetch temperature: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.DayRecord{}, err
	}

	p.logger.InfoContext(ctx, "Upstream data fetched",
		"date", date.String(),
		"heating_kwh", reports.Heating.Consumption.Sum,
		"general_kwh", reports.General.Consumption.Sum,
		"avg_temperature", avgTemp)

	return core.NewDayRecord(reports.Heating, reports.General, avgTemp, date), nil
}

// report renders the day summary and publishes it.
func (p *Pipeline) report(ctx context.Context, record core.DayRecord) error {
	settings, err := p.store.GetSettings(ctx)
	if err != nil {
		return p.fail(ctx, record.Date, fmt.Errorf("load settings: %w", err))
	}

	text := record.Summary(settings.CostHeating)
	if err := p.publish(ctx, record.Date, text); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	p.logger.InfoContext(ctx, "Daily run complete", "date", record.Date.String())
	return nil
}

// fail renders the failure as user-visible text so the run still reaches a
// terminal, reported state.
func (p *Pipeline) fail(ctx context.Context, date core.Date, cause error) error {
	p.logger.ErrorContext(ctx, "Daily run failed", "date", date.String(), "error", cause)

	text := fmt.Sprintf("Could not ingest data for %s: %v", date, cause)
	if err := p.publish(ctx, date, text); err != nil {
		p.logger.ErrorContext(ctx, "Failure report could not be published", "date", date.String(), "error", err)
	}
	return cause
}

func (p *Pipeline) publish(ctx context.Context, date core.Date, text string) error {
	if p.notifier == nil {
		p.logger.WarnContext(ctx, "No notifier configured, skipping publish", "date", date.String())
		return nil
	}
	return p.notifier.PublishDailySummary(ctx, date, text)
}

// TodaySummary builds a display-only summary for the current day from the
// rolling 24h reports. The record is never persisted because the day is not
// over yet.
func (p *Pipeline) TodaySummary(ctx context.Context, now time.Time) (string, error) {
	today := core.DateOf(now)

	settings, err := p.store.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	var (
		reports ClassifiedReports
		avgTemp float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reports, err = p.classifier.ClassifyRolling(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		avgTemp, err = p.temps.AverageTemperatureFor(gctx, today)
		if err != nil {
			return fmt.Errorf("fetch temperature: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	record := core.NewDayRecord(reports.Heating, reports.General, avgTemp, today)
	return record.Summary(settings.CostHeating), nil
}

// YesterdaySummary renders yesterday's stored record, running the daily
// ingestion first when the record is missing.
func (p *Pipeline) YesterdaySummary(ctx context.Context, now time.Time) (string, error) {
	target := core.DateOf(now).AddDays(-1)

	record, err := p.store.GetDay(ctx, target)
	if errors.Is(err, core.ErrNotFound) {
		if runErr := p.RunDaily(ctx, now); runErr != nil {
			return "", runErr
		}
		record, err = p.store.GetDay(ctx, target)
	}
	if err != nil {
		return "", fmt.Errorf("load yesterday: %w", err)
	}

	settings, err := p.store.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	return record.Summary(settings.CostHeating), nil
}

// MonthSummary renders this month's cost totals against the configured
// budgets. An empty month propagates core.ErrEmptyAggregation.
func (p *Pipeline) MonthSummary(ctx context.Context) (string, error) {
	settings, err := p.store.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	days, err := p.store.GetDaysOfMonth(ctx)
	if err != nil {
		return "", fmt.Errorf("load month: %w", err)
	}

	return days.CostSummary(settings)
}
