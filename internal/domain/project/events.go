package project

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type names
const (
	EventTypeTaskCreated            = "TaskCreated"
	EventTypeTaskAssigned           = "TaskAssigned"
	EventTypeTaskStatusChanged      = "TaskStatusChanged"
	EventTypeTaskSubmittedForReview = "TaskSubmittedForReview"
	EventTypeTaskApprovalDecided    = "TaskApprovalDecided"

	aggregateTypeTask = "Task"
)

// TaskCreatedEvent is raised for a new task
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID   `json:"project_id"`
	Title       string      `json:"title"`
	Priority    Priority    `json:"priority"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

// NewTaskCreatedEvent creates a TaskCreatedEvent
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, aggregateTypeTask, t.ID, t.TenantID),
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		Priority:        t.Priority,
		AssigneeIDs:     append([]uuid.UUID(nil), t.AssigneeIDs...),
	}
}

// TaskAssignedEvent is raised when an employee joins a task
type TaskAssignedEvent struct {
	shared.BaseDomainEvent
	ProjectID  uuid.UUID `json:"project_id"`
	Title      string    `json:"title"`
	EmployeeID uuid.UUID `json:"employee_id"`
}

// NewTaskAssignedEvent creates a TaskAssignedEvent
func NewTaskAssignedEvent(t *Task, employeeID uuid.UUID) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskAssigned, aggregateTypeTask, t.ID, t.TenantID),
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		EmployeeID:      employeeID,
	}
}

// TaskStatusChangedEvent is raised on every status move
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID  `json:"project_id"`
	Title     string     `json:"title"`
	From      TaskStatus `json:"from"`
	To        TaskStatus `json:"to"`
}

// NewTaskStatusChangedEvent creates a TaskStatusChangedEvent. Moving into
// review raises the dedicated submission event type instead.
func NewTaskStatusChangedEvent(t *Task, from TaskStatus) *TaskStatusChangedEvent {
	eventType := EventTypeTaskStatusChanged
	if t.Status == TaskStatusInReview {
		eventType = EventTypeTaskSubmittedForReview
	}
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggregateTypeTask, t.ID, t.TenantID),
		ProjectID:       t.ProjectID,
		Title:           t.Title,
		From:            from,
		To:              t.Status,
	}
}

// TaskApprovalDecidedEvent is raised when a reviewer approves, rejects or
// requests changes
type TaskApprovalDecidedEvent struct {
	shared.BaseDomainEvent
	ProjectID        uuid.UUID      `json:"project_id"`
	Title            string         `json:"title"`
	Verdict          ApprovalStatus `json:"verdict"`
	Approver         string         `json:"approver"`
	Note             string         `json:"note,omitempty"`
	ChangesRequested bool           `json:"changes_requested"`
	AssigneeIDs      []uuid.UUID    `json:"assignee_ids"`
}

// NewTaskApprovalDecidedEvent creates a TaskApprovalDecidedEvent
func NewTaskApprovalDecidedEvent(t *Task, approver, note string, changesRequested bool) *TaskApprovalDecidedEvent {
	var verdict ApprovalStatus
	if t.ApprovalStatus != nil {
		verdict = *t.ApprovalStatus
	}
	return &TaskApprovalDecidedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTaskApprovalDecided, aggregateTypeTask, t.ID, t.TenantID),
		ProjectID:        t.ProjectID,
		Title:            t.Title,
		Verdict:          verdict,
		Approver:         approver,
		Note:             note,
		ChangesRequested: changesRequested,
		AssigneeIDs:      append([]uuid.UUID(nil), t.AssigneeIDs...),
	}
}
