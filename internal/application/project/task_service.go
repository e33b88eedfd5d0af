package project

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyAssigned is returned when the employee already works on the task
var ErrAlreadyAssigned = shared.NewDomainError("ALREADY_EXISTS", "Employee is already assigned to this task")

// TaskRepositories groups the read-side repositories the task services use
type TaskRepositories struct {
	Projects  project.ProjectRepository
	Tasks     project.TaskRepository
	Modules   project.ModuleRepository
	Employees workforce.EmployeeRepository
}

// workflow commits a task change together with the SYSTEM log describing it
// and publishes the task's events once the transaction is committed
type workflow struct {
	txScope        TransactionScope
	attributor     *Attributor
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

func (w *workflow) commit(
	ctx context.Context,
	actor identity.Actor,
	task *project.Task,
	message string,
	write func(repos TransactionalRepositories) error,
) error {
	author, err := w.attributor.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	err = w.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := write(repos); err != nil {
			return err
		}
		taskID := task.ID
		entry := project.NewSystemLog(task.TenantID, task.ProjectID, &taskID, author, message, w.now())
		return repos.DailyLogRepo().Save(ctx, entry)
	})
	if err != nil {
		return err
	}
	w.publish(ctx, task)
	return nil
}

func (w *workflow) publish(ctx context.Context, task *project.Task) {
	events := task.GetDomainEvents()
	if w.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := w.eventPublisher.Publish(ctx, events...); err != nil {
		w.logger.Warn("failed to publish task events", zap.Error(err))
	}
	task.ClearDomainEvents()
}

// TaskService runs the task workflow: creation, status moves, assignment and
// editing. Every workflow write appends a SYSTEM daily log in the same
// transaction.
type TaskService struct {
	repos TaskRepositories
	flow  *workflow
}

// NewTaskService creates a new TaskService
func NewTaskService(repos TaskRepositories, txScope TransactionScope, attributor *Attributor, logger *zap.Logger) *TaskService {
	return &TaskService{
		repos: repos,
		flow: &workflow{
			txScope:    txScope,
			attributor: attributor,
			now:        nowUTC,
			logger:     common.Nop(logger),
		},
	}
}

// SetEventPublisher sets the publisher that receives task events after commit
func (s *TaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.flow.eventPublisher = publisher
}

// Create adds a TODO task with its assignees
func (s *TaskService) Create(ctx context.Context, actor identity.Actor, req CreateTaskRequest) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := project.NewTask(actor.CompanyID, req.ProjectID, req.toDetails(), req.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Projects.FindByIDForTenant(ctx, actor.CompanyID, req.ProjectID); err != nil {
		return nil, s.fail("load project", notFoundAs(err, "Project"))
	}
	if err := s.verifyModule(ctx, actor.CompanyID, task.ProjectID, task.ModuleID); err != nil {
		return nil, s.fail("verify module", err)
	}
	if err := s.verifyEmployees(ctx, actor.CompanyID, task.AssigneeIDs); err != nil {
		return nil, s.fail("verify assignees", err)
	}

	err = s.flow.commit(ctx, actor, task, project.CreatedTaskMessage(task.Title), func(repos TransactionalRepositories) error {
		return repos.TaskRepo().Create(ctx, task)
	})
	if err != nil {
		return nil, s.fail("create task", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// UpdateStatus moves the task through the workflow
func (s *TaskService) UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateStatusRequest) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := task.ChangeStatus(project.TaskStatus(req.Status)); err != nil {
		return nil, err
	}
	err = s.flow.commit(ctx, actor, task, project.StatusChangedMessage(task.Status, task.Title), func(repos TransactionalRepositories) error {
		return repos.TaskRepo().Update(ctx, task)
	})
	if err != nil {
		return nil, s.fail("update task status", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Assign adds an employee of the company to the task
func (s *TaskService) Assign(ctx context.Context, actor identity.Actor, id, employeeID uuid.UUID) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	emp, err := s.repos.Employees.FindByIDForTenant(ctx, actor.CompanyID, employeeID)
	if err != nil {
		return nil, s.fail("load employee", notFoundAs(err, "Employee"))
	}
	if !task.Assign(emp.ID) {
		return nil, ErrAlreadyAssigned
	}
	err = s.flow.commit(ctx, actor, task, project.AssignedMessage(emp.Name, task.Title), func(repos TransactionalRepositories) error {
		if err := repos.TaskRepo().AddAssignee(ctx, actor.CompanyID, task.ID, emp.ID); err != nil {
			return err
		}
		return repos.TaskRepo().Update(ctx, task)
	})
	if err != nil {
		return nil, s.fail("assign task", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Unassign removes an employee from the task. The legacy assignee moves to
// the next remaining assignee when it was the removed one.
func (s *TaskService) Unassign(ctx context.Context, actor identity.Actor, id, employeeID uuid.UUID) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !task.Unassign(employeeID) {
		return nil, common.NotFound("Assignee")
	}
	err = s.flow.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.TaskRepo().RemoveAssignee(ctx, actor.CompanyID, task.ID, employeeID); err != nil {
			return err
		}
		return repos.TaskRepo().Update(ctx, task)
	})
	if err != nil {
		return nil, s.fail("unassign task", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Update edits title, description, priority, due date, module and hours
func (s *TaskService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := task.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.verifyModule(ctx, actor.CompanyID, task.ProjectID, task.ModuleID); err != nil {
		return nil, s.fail("verify module", err)
	}
	if err := s.repos.Tasks.Update(ctx, task); err != nil {
		return nil, s.fail("update task", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// SetVisibility controls whether the project's client sees the task
func (s *TaskService) SetVisibility(ctx context.Context, actor identity.Actor, id uuid.UUID, req VisibilityRequest) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	task.SetVisibility(req.IsClientVisible)
	if err := s.repos.Tasks.Update(ctx, task); err != nil {
		return nil, s.fail("update task visibility", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Delete removes the task with its assignee rows. Its logs stay on the
// project timeline without the task link.
func (s *TaskService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	return s.fail("delete task", s.repos.Tasks.DeleteForTenant(ctx, actor.CompanyID, id))
}

// Get returns one task. Clients only see visible tasks of their projects.
func (s *TaskService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TaskResponse, error) {
	if err := actor.RequireTenant(); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.UserType == identity.UserTypeClient {
		if !task.IsClientVisible {
			return nil, common.NotFound("Task")
		}
		if _, err := loadVisibleProject(ctx, s.repos.Projects, actor, task.ProjectID); err != nil {
			return nil, common.NotFound("Task")
		}
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// List returns a page of tasks filtered by project, status and assignee.
// Clients must name one of their projects and only get visible tasks.
func (s *TaskService) List(ctx context.Context, actor identity.Actor, filter TaskListFilter) ([]TaskResponse, int64, error) {
	if err := actor.RequireTenant(); err != nil {
		return nil, 0, err
	}
	df := filter.toDomain()
	if actor.UserType == identity.UserTypeClient {
		if df.ProjectID == nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "A project is required")
		}
		if _, err := loadVisibleProject(ctx, s.repos.Projects, actor, *df.ProjectID); err != nil {
			return nil, 0, s.fail("load project", err)
		}
		visible := true
		df.ClientVisible = &visible
	}
	rows, total, err := s.repos.Tasks.FindAllForTenant(ctx, actor.CompanyID, df)
	if err != nil {
		return nil, 0, s.fail("list tasks", err)
	}
	out := make([]TaskResponse, len(rows))
	for i := range rows {
		out[i] = ToTaskResponse(&rows[i])
	}
	return out, total, nil
}

func (s *TaskService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*project.Task, error) {
	task, err := s.repos.Tasks.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, s.fail("load task", notFoundAs(err, "Task"))
	}
	return task, nil
}

func (s *TaskService) verifyModule(ctx context.Context, tenantID, projectID uuid.UUID, moduleID *uuid.UUID) error {
	if moduleID == nil {
		return nil
	}
	m, err := s.repos.Modules.FindByIDForTenant(ctx, tenantID, *moduleID)
	if err != nil {
		return notFoundAs(err, "Module")
	}
	if m.ProjectID != projectID {
		return common.NotFound("Module")
	}
	return nil
}

func (s *TaskService) verifyEmployees(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.repos.Employees.FindByIDsForTenant(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return common.NotFound("Employee")
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func (s *TaskService) fail(op string, err error) error {
	return common.Fail(s.flow.logger, op, err)
}
