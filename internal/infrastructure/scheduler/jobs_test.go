package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) ProcessAllTenants(ctx context.Context, now time.Time) (*recurrenceapp.ProcessResult, error) {
	args := m.Called(ctx, now)
	res, _ := args.Get(0).(*recurrenceapp.ProcessResult)
	return res, args.Error(1)
}

type mockReminders struct {
	mock.Mock
}

func (m *mockReminders) SendDue(ctx context.Context, now time.Time) (*notification.ReminderResult, error) {
	args := m.Called(ctx, now)
	res, _ := args.Get(0).(*notification.ReminderResult)
	return res, args.Error(1)
}

func TestRecurringJob(t *testing.T) {
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	core, logs := observer.New(zap.InfoLevel)

	p := new(mockProcessor)
	p.On("ProcessAllTenants", mock.Anything, now).Return(&recurrenceapp.ProcessResult{Processed: 3, Skipped: 1}, nil).Once()
	job := RecurringJob(DailySchedule{Hour: 1}, p, zap.New(core))

	require.NoError(t, job.Run(context.Background(), now))
	assert.Equal(t, JobRecurring, job.Name)
	entry := logs.FilterMessage("recurring transactions processed").All()
	require.Len(t, entry, 1)
	assert.Equal(t, int64(3), entry[0].ContextMap()["processed"])

	p.On("ProcessAllTenants", mock.Anything, now).Return(nil, errors.New("db down")).Once()
	assert.Error(t, job.Run(context.Background(), now))
	p.AssertExpectations(t)
}

func TestReminderJob(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s := new(mockReminders)
	s.On("SendDue", mock.Anything, now).Return(&notification.ReminderResult{EmailsSent: 2}, nil)

	job := ReminderJob(DailySchedule{Hour: 8}, s, zap.NewNop())
	require.NoError(t, job.Run(context.Background(), now))
	assert.Equal(t, JobReminders, job.Name)
	s.AssertExpectations(t)
}
