package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind selects the template a Message is rendered with
type Kind string

const (
	KindTaskAssigned       Kind = "task_assigned"
	KindTaskCompleted      Kind = "task_completed"
	KindDeadlineReminder   Kind = "deadline_reminder"
	KindApprovalRequest    Kind = "approval_request"
	KindApprovalDecision   Kind = "approval_decision"
	KindClientWelcome      Kind = "client_welcome"
	KindMagicLink          Kind = "magic_link"
	KindRecurringProcessed Kind = "recurring_processed"
)

// Recipient is the addressee of a message
type Recipient struct {
	Email string
	Name  string
}

// Message is one outbound notification. Data holds the template data struct
// matching Kind.
type Message struct {
	Kind Kind
	To   Recipient
	Data any
}

// Notifier delivers messages. Callers treat delivery as best effort.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// TaskAssignedData fills the task assignment template
type TaskAssignedData struct {
	EmployeeName    string
	TaskTitle       string
	TaskDescription string
	ProjectName     string
	DueDate         *time.Time
}

// TaskCompletedData fills the task completion template
type TaskCompletedData struct {
	EmployeeName string
	TaskTitle    string
	ProjectName  string
	CompletedAt  time.Time
}

// DeadlineReminderData fills the deadline reminder template
type DeadlineReminderData struct {
	EmployeeName    string
	TaskID          uuid.UUID
	TaskTitle       string
	TaskDescription string
	ProjectName     string
	DueDate         time.Time
	DaysUntilDue    int
	Overdue         bool
}

// ApprovalRequestData fills the approval request template
type ApprovalRequestData struct {
	ApproverName    string
	TaskID          uuid.UUID
	TaskTitle       string
	TaskDescription string
	ProjectName     string
	EmployeeName    string
	SubmittedAt     time.Time
}

// ApprovalDecisionData fills the approval confirmation template
type ApprovalDecisionData struct {
	EmployeeName string
	TaskTitle    string
	ProjectName  string
	ApproverName string
	Approved     bool
	Feedback     string
}

// ClientWelcomeData fills the client welcome template
type ClientWelcomeData struct {
	ClientName  string
	CompanyName string
	ProjectName string
	MagicLink   string
}

// MagicLinkData fills the client portal access template
type MagicLinkData struct {
	ClientName string
	MagicLink  string
}

// RecurringProcessedData fills the recurring transaction confirmation template
type RecurringProcessedData struct {
	RecipientName   string
	TransactionName string
	Amount          decimal.Decimal
	Income          bool
	Frequency       string
	NextRun         time.Time
}
