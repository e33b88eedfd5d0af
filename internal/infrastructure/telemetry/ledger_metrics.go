package telemetry

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// LedgerMetrics counts ledger and task activity from the event bus and
// times scheduled jobs
type LedgerMetrics struct {
	logger *zap.Logger

	entries     *Counter
	entryCents  *Counter
	recurring   *Counter
	taskEvents  *Counter
	jobRuns     *Counter
	jobDuration *Histogram
}

// NewLedgerMetrics creates the instruments on meter
func NewLedgerMetrics(meter metric.Meter, logger *zap.Logger) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &LedgerMetrics{logger: logger}

	var err error
	if m.entries, err = NewCounter(meter, "ledger_entries_total", "Ledger rows recorded or deleted", "{entry}"); err != nil {
		return nil, err
	}
	if m.entryCents, err = NewCounter(meter, "ledger_entry_amount_cents_total", "Absolute amount of recorded ledger rows", "{cent}"); err != nil {
		return nil, err
	}
	if m.recurring, err = NewCounter(meter, "ledger_recurring_entries_total", "Ledger rows materialized from recurring templates", "{entry}"); err != nil {
		return nil, err
	}
	if m.taskEvents, err = NewCounter(meter, "project_task_events_total", "Task lifecycle events", "{event}"); err != nil {
		return nil, err
	}
	if m.jobRuns, err = NewCounter(meter, "scheduler_job_runs_total", "Scheduled job executions", "{run}"); err != nil {
		return nil, err
	}
	if m.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "scheduler_job_duration_seconds",
		Description: "Scheduled job latency",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes subscribes to every event
func (m *LedgerMetrics) EventTypes() []string {
	return nil
}

// Handle records the event; it never fails
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())
	eventType := AttrEventType.String(event.EventType())

	switch e := event.(type) {
	case *ledger.EntryEvent:
		m.entries.Inc(ctx, tenant, eventType)
		if e.EventType() == ledger.EventTypeExpenditureRecorded || e.EventType() == ledger.EventTypeIncomeRecorded {
			m.entryCents.Add(ctx, e.Amount.Abs().Shift(2).Round(0).IntPart(), tenant, eventType)
			if e.RecurringID != nil {
				m.recurring.Inc(ctx, tenant, eventType)
			}
		}
	case *project.TaskCreatedEvent, *project.TaskAssignedEvent, *project.TaskStatusChangedEvent, *project.TaskApprovalDecidedEvent:
		m.taskEvents.Inc(ctx, tenant, eventType)
	}
	return nil
}

// ObserveJob wraps a scheduled job so each run is counted and timed
func (m *LedgerMetrics) ObserveJob(name string, run func(ctx context.Context, now time.Time) error) func(ctx context.Context, now time.Time) error {
	return func(ctx context.Context, now time.Time) error {
		start := time.Now()
		err := run(ctx, now)

		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		m.jobRuns.Inc(ctx, AttrJob.String(name), AttrOutcome.String(outcome))
		m.jobDuration.RecordDuration(ctx, time.Since(start), AttrJob.String(name))
		return err
	}
}
