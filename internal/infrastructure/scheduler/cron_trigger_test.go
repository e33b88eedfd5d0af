package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func countingJob(name string, schedule DailySchedule, runs *atomic.Int32, err error) Job {
	return Job{
		Name:     name,
		Schedule: schedule,
		Run: func(context.Context, time.Time) error {
			runs.Add(1)
			return err
		},
	}
}

func TestCronTrigger_TickRunsOncePerDay(t *testing.T) {
	c := NewCronTrigger(DefaultCronTriggerConfig(), zap.NewNop())
	var runs atomic.Int32
	require.NoError(t, c.Register(countingJob(JobRecurring, DailySchedule{Hour: 1}, &runs, nil)))

	ctx := context.Background()
	c.tick(ctx, time.Date(2024, 5, 1, 0, 59, 0, 0, time.UTC))
	c.tick(ctx, time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC))
	c.wg.Wait()
	c.tick(ctx, time.Date(2024, 5, 1, 1, 0, 30, 0, time.UTC))
	c.wg.Wait()
	assert.Equal(t, int32(1), runs.Load())

	c.tick(ctx, time.Date(2024, 5, 2, 1, 0, 0, 0, time.UTC))
	c.wg.Wait()
	assert.Equal(t, int32(2), runs.Load())
}

func TestCronTrigger_FailuresAreRecorded(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := NewCronTrigger(DefaultCronTriggerConfig(), zap.New(core))
	c.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }

	var runs atomic.Int32
	require.NoError(t, c.Register(countingJob(JobReminders, DailySchedule{Hour: 8}, &runs, errors.New("smtp down"))))
	require.NoError(t, c.Register(Job{
		Name:     "panics",
		Schedule: DailySchedule{Hour: 8},
		Run:      func(context.Context, time.Time) error { panic("boom") },
	}))

	c.tick(context.Background(), c.now())
	c.wg.Wait()

	status := c.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "smtp down", status[0].LastError)
	assert.Contains(t, status[1].LastError, "panicked")
	require.NotNil(t, status[0].LastRunAt)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), status[0].NextRunAt)
	assert.Equal(t, 2, logs.FilterMessage("job failed").Len())
}

func TestCronTrigger_Register(t *testing.T) {
	c := NewCronTrigger(CronTriggerConfig{}, nil)
	var runs atomic.Int32
	require.NoError(t, c.Register(countingJob("a", DailySchedule{}, &runs, nil)))
	assert.ErrorIs(t, c.Register(countingJob("a", DailySchedule{}, &runs, nil)), ErrDuplicateJob)
}

func TestCronTrigger_TriggerNow(t *testing.T) {
	c := NewCronTrigger(DefaultCronTriggerConfig(), zap.NewNop())
	var runs atomic.Int32
	require.NoError(t, c.Register(countingJob(JobRecurring, DailySchedule{Hour: 23}, &runs, nil)))

	require.NoError(t, c.TriggerNow(context.Background(), JobRecurring))
	assert.Equal(t, int32(1), runs.Load())
	assert.ErrorIs(t, c.TriggerNow(context.Background(), "missing"), ErrUnknownJob)
}

func TestCronTrigger_StartStop(t *testing.T) {
	cfg := DefaultCronTriggerConfig()
	cfg.CheckInterval = 10 * time.Millisecond
	c := NewCronTrigger(cfg, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, c.Stop(stopCtx))
	require.NoError(t, c.Stop(stopCtx))
}
