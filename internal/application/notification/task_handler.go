package notification

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultApproverName = "Admin"

// TaskEventHandler turns task workflow events into emails. It runs after the
// workflow transaction committed; a failed send is logged and never affects
// the task.
type TaskEventHandler struct {
	tasks      project.TaskRepository
	projects   project.ProjectRepository
	employees  workforce.EmployeeRepository
	notifier   Notifier
	adminEmail string
	logger     *zap.Logger
}

// NewTaskEventHandler creates a TaskEventHandler. adminEmail receives review
// requests and completion notices; leave it empty to skip those.
func NewTaskEventHandler(
	tasks project.TaskRepository,
	projects project.ProjectRepository,
	employees workforce.EmployeeRepository,
	notifier Notifier,
	adminEmail string,
	logger *zap.Logger,
) *TaskEventHandler {
	return &TaskEventHandler{
		tasks:      tasks,
		projects:   projects,
		employees:  employees,
		notifier:   notifier,
		adminEmail: strings.TrimSpace(adminEmail),
		logger:     common.Nop(logger),
	}
}

// EventTypes returns the event types this handler is interested in
func (h *TaskEventHandler) EventTypes() []string {
	return []string{
		project.EventTypeTaskCreated,
		project.EventTypeTaskAssigned,
		project.EventTypeTaskStatusChanged,
		project.EventTypeTaskSubmittedForReview,
		project.EventTypeTaskApprovalDecided,
	}
}

// Handle dispatches one task event
func (h *TaskEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *project.TaskCreatedEvent:
		return h.notifyAssigned(ctx, e.TenantID(), e.AggregateID(), e.AssigneeIDs)
	case *project.TaskAssignedEvent:
		return h.notifyAssigned(ctx, e.TenantID(), e.AggregateID(), []uuid.UUID{e.EmployeeID})
	case *project.TaskStatusChangedEvent:
		switch e.To {
		case project.TaskStatusInReview:
			return h.notifyReviewRequested(ctx, e)
		case project.TaskStatusCompleted:
			return h.notifyCompleted(ctx, e)
		}
		return nil
	case *project.TaskApprovalDecidedEvent:
		return h.notifyDecision(ctx, e)
	}
	h.logger.Debug("ignoring unexpected event", zap.String("event_type", event.EventType()))
	return nil
}

// taskContext is a task with the names its emails mention
type taskContext struct {
	task        *project.Task
	projectName string
	assignees   []workforce.Employee
}

func (tc *taskContext) assigneeNames() string {
	names := make([]string, 0, len(tc.assignees))
	for _, e := range tc.assignees {
		names = append(names, e.Name)
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}

// load returns nil when the task vanished before the event was handled
func (h *TaskEventHandler) load(ctx context.Context, tenantID, taskID uuid.UUID, employeeIDs []uuid.UUID) (*taskContext, error) {
	task, err := h.tasks.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		if common.IsNotFound(err) {
			h.logger.Debug("task gone before notification", zap.String("task_id", taskID.String()))
			return nil, nil
		}
		return nil, err
	}
	tc := &taskContext{task: task}
	if p, err := h.projects.FindByIDForTenant(ctx, tenantID, task.ProjectID); err == nil {
		tc.projectName = p.Name
	} else if !common.IsNotFound(err) {
		return nil, err
	}
	if employeeIDs == nil {
		employeeIDs = task.AssigneeIDs
	}
	if len(employeeIDs) > 0 {
		employees, err := h.employees.FindByIDsForTenant(ctx, tenantID, employeeIDs)
		if err != nil {
			return nil, err
		}
		tc.assignees = employees
	}
	return tc, nil
}

func (h *TaskEventHandler) notifyAssigned(ctx context.Context, tenantID, taskID uuid.UUID, employeeIDs []uuid.UUID) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	tc, err := h.load(ctx, tenantID, taskID, employeeIDs)
	if err != nil || tc == nil {
		return err
	}
	for _, e := range tc.assignees {
		h.send(ctx, e, Message{
			Kind: KindTaskAssigned,
			To:   Recipient{Email: e.Email, Name: e.Name},
			Data: TaskAssignedData{
				EmployeeName:    e.Name,
				TaskTitle:       tc.task.Title,
				TaskDescription: tc.task.Description,
				ProjectName:     tc.projectName,
				DueDate:         tc.task.DueDate,
			},
		})
	}
	return nil
}

func (h *TaskEventHandler) notifyReviewRequested(ctx context.Context, e *project.TaskStatusChangedEvent) error {
	if h.adminEmail == "" {
		return nil
	}
	tc, err := h.load(ctx, e.TenantID(), e.AggregateID(), nil)
	if err != nil || tc == nil {
		return err
	}
	h.deliver(ctx, Message{
		Kind: KindApprovalRequest,
		To:   Recipient{Email: h.adminEmail, Name: defaultApproverName},
		Data: ApprovalRequestData{
			ApproverName:    defaultApproverName,
			TaskID:          tc.task.ID,
			TaskTitle:       tc.task.Title,
			TaskDescription: tc.task.Description,
			ProjectName:     tc.projectName,
			EmployeeName:    tc.assigneeNames(),
			SubmittedAt:     e.OccurredAt(),
		},
	})
	return nil
}

func (h *TaskEventHandler) notifyCompleted(ctx context.Context, e *project.TaskStatusChangedEvent) error {
	if h.adminEmail == "" {
		return nil
	}
	tc, err := h.load(ctx, e.TenantID(), e.AggregateID(), nil)
	if err != nil || tc == nil {
		return err
	}
	h.deliver(ctx, Message{
		Kind: KindTaskCompleted,
		To:   Recipient{Email: h.adminEmail, Name: defaultApproverName},
		Data: TaskCompletedData{
			EmployeeName: tc.assigneeNames(),
			TaskTitle:    tc.task.Title,
			ProjectName:  tc.projectName,
			CompletedAt:  e.OccurredAt(),
		},
	})
	return nil
}

func (h *TaskEventHandler) notifyDecision(ctx context.Context, e *project.TaskApprovalDecidedEvent) error {
	if len(e.AssigneeIDs) == 0 {
		return nil
	}
	tc, err := h.load(ctx, e.TenantID(), e.AggregateID(), e.AssigneeIDs)
	if err != nil || tc == nil {
		return err
	}
	approved := e.Verdict == project.ApprovalApproved && !e.ChangesRequested
	for _, employee := range tc.assignees {
		h.send(ctx, employee, Message{
			Kind: KindApprovalDecision,
			To:   Recipient{Email: employee.Email, Name: employee.Name},
			Data: ApprovalDecisionData{
				EmployeeName: employee.Name,
				TaskTitle:    e.Title,
				ProjectName:  tc.projectName,
				ApproverName: e.Approver,
				Approved:     approved,
				Feedback:     e.Note,
			},
		})
	}
	return nil
}

// send delivers to an employee, skipping those without an email
func (h *TaskEventHandler) send(ctx context.Context, e workforce.Employee, msg Message) {
	if !e.HasEmail() {
		return
	}
	h.deliver(ctx, msg)
}

func (h *TaskEventHandler) deliver(ctx context.Context, msg Message) {
	if err := h.notifier.Send(ctx, msg); err != nil {
		h.logger.Warn("failed to send notification",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To.Email),
			zap.Error(err),
		)
	}
}

var _ shared.EventHandler = (*TaskEventHandler)(nil)
