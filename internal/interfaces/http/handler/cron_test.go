package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTenantProcessor struct {
	mock.Mock
}

func (m *MockTenantProcessor) ProcessAllTenants(ctx context.Context, now time.Time) (*recurrenceapp.ProcessResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurrenceapp.ProcessResult), args.Error(1)
}

type MockReminderSender struct {
	mock.Mock
}

func (m *MockReminderSender) SendDue(ctx context.Context, now time.Time) (*notification.ReminderResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.ReminderResult), args.Error(1)
}

func cronRouter(processor *MockTenantProcessor, reminders *MockReminderSender, now time.Time) *gin.Engine {
	h := NewCronHandler(processor, reminders)
	h.now = func() time.Time { return now }
	r := newTestRouter(nil)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		r.Handle(method, "/cron/recurring", h.Recurring)
		r.Handle(method, "/cron/task-reminders", h.TaskReminders)
	}
	return r
}

func TestCronHandler_Recurring(t *testing.T) {
	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	processor := new(MockTenantProcessor)
	processor.On("ProcessAllTenants", mock.Anything, now).Return(&recurrenceapp.ProcessResult{
		Processed:    3,
		Deactivated:  1,
		Skipped:      2,
		Failed:       0,
		Transactions: []recurrenceapp.MaterializedEntry{{}, {}, {}},
	}, nil)
	r := cronRouter(processor, new(MockReminderSender), now)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := doJSON(r, method, "/cron/recurring", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, map[string]any{
			"processed":   float64(3),
			"deactivated": float64(1),
			"skipped":     float64(2),
			"failed":      float64(0),
		}, data)
	}
}

func TestCronHandler_RecurringFailure(t *testing.T) {
	now := time.Now()
	processor := new(MockTenantProcessor)
	processor.On("ProcessAllTenants", mock.Anything, now).Return(nil, errors.New("db down"))
	r := cronRouter(processor, new(MockReminderSender), now)

	w := doJSON(r, http.MethodPost, "/cron/recurring", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeResponse(t, w).Error.Code)
}

func TestCronHandler_TaskReminders(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	reminders := new(MockReminderSender)
	reminders.On("SendDue", mock.Anything, now).Return(&notification.ReminderResult{
		EmailsSent: 2,
		Errors:     1,
		Details: notification.ReminderDetails{
			Sent:   []notification.SentReminder{{Task: "Landing page", Employee: "Ada"}, {Task: "Logo", Employee: "Bob", IsOverdue: true}},
			Errors: []notification.ReminderError{{Employee: "Eve", Error: "smtp timeout"}},
		},
	}, nil)
	r := cronRouter(new(MockTenantProcessor), reminders, now)

	w := doJSON(r, http.MethodGet, "/cron/task-reminders", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, float64(2), data["emails_sent"])
	assert.Equal(t, float64(1), data["errors"])
	details := data["details"].(map[string]any)
	assert.Len(t, details["sent"], 2)
}
