package worker

import (
	"context"
	"time"

	"stromkosten/internal/amqp"
	applog "stromkosten/internal/log"
)

// DailyRunner is the orchestrator entry point the worker drives. Both the
// scheduled daily trigger and on-demand triggers invoke the same entry
// point; overlapping runs are safe because persistence is an atomic upsert.
type DailyRunner interface {
	RunDaily(ctx context.Context, now time.Time) error
}

// TriggerSource delivers on-demand ingestion triggers.
type TriggerSource interface {
	ConsumeIngestTriggers(ctx context.Context, handler func(context.Context, *amqp.IngestTriggerMessage) error) error
}

// IngestWorker fires the ingestion pipeline once per day at a fixed local
// hour and whenever an on-demand trigger arrives.
type IngestWorker struct {
	runner   DailyRunner
	triggers TriggerSource // optional
	hour     int
	logger   *applog.Logger
}

func NewIngestWorker(runner DailyRunner, triggers TriggerSource, hour int, logger *applog.Logger) *IngestWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	}
	return &IngestWorker{
		runner:   runner,
		triggers: triggers,
		hour:     hour,
		logger:   logger,
	}
}

// NextRun returns the next wall-clock instant at the configured hour,
// strictly after now.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until the context is cancelled. A catch-up run fires on
// startup; it is cheap when the day is already ingested.
func (w *IngestWorker) Run(ctx context.Context) error {
	if w.triggers != nil {
		go func() {
			err := w.triggers.ConsumeIngestTriggers(ctx, w.handleTrigger)
			if err != nil && err != context.Canceled {
				w.logger.ErrorContext(ctx, "Trigger consumption stopped", "error", err)
			}
		}()
	}

	w.logger.InfoContext(ctx, "Running startup ingestion...")
	if err := w.runner.RunDaily(ctx, time.Now()); err != nil {
		w.logger.ErrorContext(ctx, "Startup ingestion failed", "error", err)
	}

	for {
		next := NextRun(time.Now(), w.hour)
		w.logger.InfoContext(ctx, "Next scheduled ingestion", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case now := <-timer.C:
			if err := w.runner.RunDaily(ctx, now); err != nil {
				w.logger.ErrorContext(ctx, "Scheduled ingestion failed", "error", err)
			}
		}
	}
}

func (w *IngestWorker) handleTrigger(ctx context.Context, msg *amqp.IngestTriggerMessage) error {
	w.logger.InfoContext(ctx, "On-demand ingestion requested", "requested_at", msg.RequestedAt)
	return w.runner.RunDaily(ctx, time.Now())
}
