package mail

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *TemplateEngine {
	t.Helper()
	e, err := NewTemplateEngine("https://app.example.com/")
	require.NoError(t, err)
	return e
}

func TestTemplateEngine_EveryKindRenders(t *testing.T) {
	e := newEngine(t)
	due := time.Date(2024, 5, 12, 17, 0, 0, 0, time.UTC)

	messages := []notification.Message{
		{Kind: notification.KindTaskAssigned, Data: notification.TaskAssignedData{EmployeeName: "Ada", TaskTitle: "Ship", ProjectName: "Web", DueDate: &due}},
		{Kind: notification.KindTaskCompleted, Data: notification.TaskCompletedData{EmployeeName: "Ada", TaskTitle: "Ship", CompletedAt: due}},
		{Kind: notification.KindDeadlineReminder, Data: notification.DeadlineReminderData{TaskID: uuid.New(), TaskTitle: "Ship", DueDate: due, DaysUntilDue: 3}},
		{Kind: notification.KindApprovalRequest, Data: notification.ApprovalRequestData{TaskID: uuid.New(), TaskTitle: "Ship", SubmittedAt: due}},
		{Kind: notification.KindApprovalDecision, Data: notification.ApprovalDecisionData{TaskTitle: "Ship", Approved: true}},
		{Kind: notification.KindClientWelcome, Data: notification.ClientWelcomeData{ClientName: "Acme", CompanyName: "Studio", MagicLink: "https://app.example.com/m/x"}},
		{Kind: notification.KindMagicLink, Data: notification.MagicLinkData{ClientName: "Acme", MagicLink: "https://app.example.com/m/y"}},
		{Kind: notification.KindRecurringProcessed, Data: notification.RecurringProcessedData{TransactionName: "Rent", Amount: decimal.NewFromInt(1200), Frequency: "MONTHLY", NextRun: due}},
	}
	for _, msg := range messages {
		t.Run(string(msg.Kind), func(t *testing.T) {
			out, err := e.Render(msg)
			require.NoError(t, err)
			assert.NotEmpty(t, out.Subject)
			assert.Contains(t, out.HTML, "<!DOCTYPE html>")
		})
	}
}

func TestTemplateEngine_Subjects(t *testing.T) {
	e := newEngine(t)

	cases := []struct {
		name string
		data any
		kind notification.Kind
		want string
	}{
		{"overdue", notification.DeadlineReminderData{TaskTitle: "Audit", Overdue: true}, notification.KindDeadlineReminder, "Overdue: Audit"},
		{"due today", notification.DeadlineReminderData{TaskTitle: "Audit"}, notification.KindDeadlineReminder, "Due Today: Audit"},
		{"due tomorrow", notification.DeadlineReminderData{TaskTitle: "Audit", DaysUntilDue: 1}, notification.KindDeadlineReminder, "Due Tomorrow: Audit"},
		{"due later", notification.DeadlineReminderData{TaskTitle: "Audit", DaysUntilDue: 3}, notification.KindDeadlineReminder, "Due in 3 days: Audit"},
		{"rejected", notification.ApprovalDecisionData{TaskTitle: "Audit"}, notification.KindApprovalDecision, "Changes Requested: Audit"},
		{"income", notification.RecurringProcessedData{Amount: decimal.RequireFromString("99.5"), Income: true}, notification.KindRecurringProcessed, "Recurring Payment Processed: $99.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := e.Render(notification.Message{Kind: tc.kind, Data: tc.data})
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Subject)
		})
	}
}

func TestTemplateEngine_BodyContent(t *testing.T) {
	e := newEngine(t)
	taskID := uuid.New()

	out, err := e.Render(notification.Message{
		Kind: notification.KindDeadlineReminder,
		Data: notification.DeadlineReminderData{
			EmployeeName: "Grace <admin>",
			TaskID:       taskID,
			TaskTitle:    "Compile",
			DueDate:      time.Date(2024, 5, 12, 17, 0, 0, 0, time.UTC),
			DaysUntilDue: 1,
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "Grace &lt;admin&gt;")
	assert.Contains(t, out.HTML, "This task is due tomorrow.")
	assert.Contains(t, out.HTML, "https://app.example.com/dashboard/tasks/"+taskID.String())
}

func TestTemplateEngine_Labels(t *testing.T) {
	assert.Equal(t, "Biweekly", label("BIWEEKLY"))
	assert.Equal(t, "In Review", label("IN_REVIEW"))

	out, err := newEngine(t).Render(notification.Message{
		Kind: notification.KindRecurringProcessed,
		Data: notification.RecurringProcessedData{Frequency: "QUARTERLY", Amount: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "Quarterly")
	assert.Contains(t, out.HTML, "$10.00")
}

func TestTemplateEngine_Errors(t *testing.T) {
	e := newEngine(t)

	_, err := e.Render(notification.Message{Kind: "unknown"})
	assert.Error(t, err)

	_, err = e.Render(notification.Message{Kind: notification.KindMagicLink, Data: "not a struct"})
	assert.Error(t, err)
}
