package project

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// ErrInvalidTransition is returned for a status move the workflow does not allow
var ErrInvalidTransition = shared.NewDomainError("INVALID_TRANSITION", "Task cannot move to the requested status")

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusTodo:       {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusInReview, TaskStatusTodo, TaskStatusCancelled},
	TaskStatusInReview:   {TaskStatusCompleted, TaskStatusInProgress, TaskStatusCancelled},
}

// IsValid checks if the task status is known
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further moves are allowed
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// IsOpen reports whether the task still needs work
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress
}

// CanTransitionTo checks if moving to target is allowed
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ApprovalStatus is the reviewer verdict on a task
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// TaskDetails carries the editable fields of a task
type TaskDetails struct {
	Title           string
	Description     string
	Priority        Priority
	DueDate         *time.Time
	ModuleID        *uuid.UUID
	EstimatedHours  *decimal.Decimal
	ActualHours     *decimal.Decimal
	IsClientVisible bool
}

// Task is a unit of project work. AssigneeIDs is the authoritative assignee
// set; AssigneeID is the legacy single assignee and is always either nil or
// a member of AssigneeIDs.
type Task struct {
	shared.TenantAggregateRoot
	ProjectID       uuid.UUID
	ModuleID        *uuid.UUID
	Title           string
	Description     string
	Status          TaskStatus
	Priority        Priority
	ApprovalStatus  *ApprovalStatus
	DueDate         *time.Time
	AssigneeID      *uuid.UUID
	AssigneeIDs     []uuid.UUID
	IsClientVisible bool
	EstimatedHours  *decimal.Decimal
	ActualHours     *decimal.Decimal
}

// NewTask creates a TODO task. The first assignee becomes the legacy assignee.
func NewTask(tenantID, projectID uuid.UUID, d TaskDetails, assigneeIDs []uuid.UUID) (*Task, error) {
	t := &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Status:              TaskStatusTodo,
	}
	if err := t.apply(d); err != nil {
		return nil, err
	}
	for _, id := range assigneeIDs {
		if id == uuid.Nil || t.HasAssignee(id) {
			continue
		}
		t.AssigneeIDs = append(t.AssigneeIDs, id)
	}
	if len(t.AssigneeIDs) > 0 {
		first := t.AssigneeIDs[0]
		t.AssigneeID = &first
	}
	t.AddDomainEvent(NewTaskCreatedEvent(t))
	return t, nil
}

// Update replaces the editable fields
func (t *Task) Update(d TaskDetails) error {
	if err := t.apply(d); err != nil {
		return err
	}
	t.touch()
	return nil
}

// SetVisibility toggles whether the client sees the task
func (t *Task) SetVisibility(visible bool) {
	t.IsClientVisible = visible
	t.touch()
}

// ChangeStatus moves the task through the workflow. Entering IN_REVIEW
// resets the approval to PENDING.
func (t *Task) ChangeStatus(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Task status is not valid")
	}
	if !t.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	from := t.Status
	t.Status = target
	if target == TaskStatusInReview {
		t.setApproval(ApprovalPending)
	}
	t.touch()
	t.AddDomainEvent(NewTaskStatusChangedEvent(t, from))
	return nil
}

// Approve records a positive verdict
func (t *Task) Approve(approver string) error {
	return t.decide(ApprovalApproved, approver, "")
}

// Reject records a negative verdict
func (t *Task) Reject(approver, reason string) error {
	return t.decide(ApprovalRejected, approver, reason)
}

// RequestChanges rejects the task and sends it back to IN_PROGRESS
func (t *Task) RequestChanges(approver, feedback string) error {
	if t.Status != TaskStatusInReview {
		return ErrInvalidTransition
	}
	t.Status = TaskStatusInProgress
	t.setApproval(ApprovalRejected)
	t.touch()
	t.AddDomainEvent(NewTaskApprovalDecidedEvent(t, approver, feedback, true))
	return nil
}

func (t *Task) decide(verdict ApprovalStatus, approver, note string) error {
	if t.Status != TaskStatusInReview && t.Status != TaskStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only tasks in review or completed can be approved or rejected")
	}
	t.setApproval(verdict)
	t.touch()
	t.AddDomainEvent(NewTaskApprovalDecidedEvent(t, approver, note, false))
	return nil
}

// Assign adds an employee. Returns false if already assigned.
func (t *Task) Assign(employeeID uuid.UUID) bool {
	if employeeID == uuid.Nil || t.HasAssignee(employeeID) {
		return false
	}
	t.AssigneeIDs = append(t.AssigneeIDs, employeeID)
	if t.AssigneeID == nil {
		id := employeeID
		t.AssigneeID = &id
	}
	t.touch()
	t.AddDomainEvent(NewTaskAssignedEvent(t, employeeID))
	return true
}

// Unassign removes an employee. If it was the legacy assignee, the legacy
// field moves to the next remaining assignee or nil. Returns false if the
// employee was not assigned.
func (t *Task) Unassign(employeeID uuid.UUID) bool {
	idx := -1
	for i, id := range t.AssigneeIDs {
		if id == employeeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.AssigneeIDs = append(t.AssigneeIDs[:idx:idx], t.AssigneeIDs[idx+1:]...)
	if t.AssigneeID != nil && *t.AssigneeID == employeeID {
		t.AssigneeID = nil
		if len(t.AssigneeIDs) > 0 {
			next := t.AssigneeIDs[0]
			t.AssigneeID = &next
		}
	}
	t.touch()
	return true
}

// HasAssignee reports whether the employee is assigned
func (t *Task) HasAssignee(employeeID uuid.UUID) bool {
	for _, id := range t.AssigneeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// DaysUntilDue returns the whole days from now to the due date, rounded up.
// Negative values mean the task is overdue.
func (t *Task) DaysUntilDue(now time.Time) (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	diff := t.DueDate.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff > 0 && diff%(24*time.Hour) != 0 {
		days++
	}
	return days, true
}

func (t *Task) setApproval(s ApprovalStatus) {
	t.ApprovalStatus = &s
}

func (t *Task) touch() {
	t.Touch()
	t.IncrementVersion()
}

func (t *Task) apply(d TaskDetails) error {
	title := strings.TrimSpace(d.Title)
	if len(title) < 2 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be at least 2 characters")
	}
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority is not valid")
	}
	if d.EstimatedHours != nil && d.EstimatedHours.IsNegative() {
		return shared.NewDomainError("INVALID_HOURS", "Estimated hours cannot be negative")
	}
	if d.ActualHours != nil && d.ActualHours.IsNegative() {
		return shared.NewDomainError("INVALID_HOURS", "Actual hours cannot be negative")
	}
	t.Title = title
	t.Description = strings.TrimSpace(d.Description)
	t.Priority = priority
	t.DueDate = d.DueDate
	t.ModuleID = d.ModuleID
	t.EstimatedHours = d.EstimatedHours
	t.ActualHours = d.ActualHours
	t.IsClientVisible = d.IsClientVisible
	return nil
}
