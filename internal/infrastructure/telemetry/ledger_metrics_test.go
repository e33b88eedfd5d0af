package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestLedgerMetrics_Handle(t *testing.T) {
	ctx := context.Background()
	provider, reader := setupTestMeter(t)
	m, err := telemetry.NewLedgerMetrics(provider.Meter(telemetry.MeterName), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, m.EventTypes())

	tenantID := uuid.New()
	templateID := uuid.New()
	input := ledger.EntryInput{
		Amount:      decimal.RequireFromString("99.50"),
		Description: "Hosting",
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		AccountID:   uuid.New(),
	}
	manual, err := ledger.NewExpenditure(tenantID, input, nil)
	require.NoError(t, err)
	input.RecurringID = &templateID
	recurring, err := ledger.NewExpenditure(tenantID, input, nil)
	require.NoError(t, err)

	events := []shared.DomainEvent{
		ledger.NewExpenditureRecordedEvent(manual),
		ledger.NewExpenditureRecordedEvent(recurring),
		ledger.NewExpenditureDeletedEvent(manual),
		project.NewTaskCreatedEvent(&project.Task{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), Title: "Ship"}),
	}
	for _, e := range events {
		require.NoError(t, m.Handle(ctx, e))
	}

	rm := collect(t, reader)
	recorded := telemetry.AttrEventType.String(ledger.EventTypeExpenditureRecorded)
	assert.Equal(t, int64(2), sumInt64(t, rm, "ledger_entries_total", recorded))
	assert.Equal(t, int64(1), sumInt64(t, rm, "ledger_entries_total", telemetry.AttrEventType.String(ledger.EventTypeExpenditureDeleted)))
	assert.Equal(t, int64(19900), sumInt64(t, rm, "ledger_entry_amount_cents_total", recorded))
	assert.Equal(t, int64(1), sumInt64(t, rm, "ledger_recurring_entries_total"))
	assert.Equal(t, int64(1), sumInt64(t, rm, "project_task_events_total", telemetry.AttrTenantID.String(tenantID.String())))
}

func TestLedgerMetrics_ObserveJob(t *testing.T) {
	ctx := context.Background()
	provider, reader := setupTestMeter(t)
	m, err := telemetry.NewLedgerMetrics(provider.Meter(telemetry.MeterName), nil)
	require.NoError(t, err)

	boom := errors.New("smtp down")
	ok := m.ObserveJob("task-reminders", func(context.Context, time.Time) error { return nil })
	failing := m.ObserveJob("task-reminders", func(context.Context, time.Time) error { return boom })

	require.NoError(t, ok(ctx, time.Now()))
	assert.ErrorIs(t, failing(ctx, time.Now()), boom)

	rm := collect(t, reader)
	job := telemetry.AttrJob.String("task-reminders")
	assert.Equal(t, int64(1), sumInt64(t, rm, "scheduler_job_runs_total", job, telemetry.AttrOutcome.String("success")))
	assert.Equal(t, int64(1), sumInt64(t, rm, "scheduler_job_runs_total", job, telemetry.AttrOutcome.String("failure")))

	hist, found := findMetric(rm, "scheduler_job_duration_seconds")
	require.True(t, found)
	assert.Equal(t, uint64(2), hist.Data.(metricdata.Histogram[float64]).DataPoints[0].Count)
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewLedgerMetrics(nil, nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}
