package project

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectFilter narrows project listings
type ProjectFilter struct {
	shared.Filter
	Status   *Status
	ClientID *uuid.UUID
}

// ProjectRepository persists projects
type ProjectRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProjectFilter) ([]Project, int64, error)
	Save(ctx context.Context, p *Project) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MemberRepository persists project team membership
type MemberRepository interface {
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Member, error)
	Exists(ctx context.Context, tenantID, projectID, employeeID uuid.UUID) (bool, error)
	Add(ctx context.Context, m *Member) error
	Remove(ctx context.Context, tenantID, projectID, employeeID uuid.UUID) error
	// RemoveEmployee drops the employee from every project team of the tenant
	RemoveEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error
}

// ModuleRepository persists project modules
type ModuleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Module, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Module, error)
	Save(ctx context.Context, m *Module) error
	// DeleteForTenant removes the module and detaches its tasks
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TaskFilter narrows task listings
type TaskFilter struct {
	shared.Filter
	ProjectID     *uuid.UUID
	Status        *TaskStatus
	AssigneeID    *uuid.UUID
	ClientVisible *bool
}

// ReminderCandidate is an open task with a due date, across tenants
type ReminderCandidate struct {
	Task        Task
	ProjectName string
}

// TaskRepository persists tasks and their assignee set
type TaskRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TaskFilter) ([]Task, int64, error)
	// Create inserts the task and its assignee rows
	Create(ctx context.Context, t *Task) error
	// Update writes scalar fields, including the legacy assignee
	Update(ctx context.Context, t *Task) error
	AddAssignee(ctx context.Context, tenantID, taskID, employeeID uuid.UUID) error
	RemoveAssignee(ctx context.Context, tenantID, taskID, employeeID uuid.UUID) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// RemoveEmployee drops the employee from every task of the tenant and
	// repairs the legacy assignee field
	RemoveEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error
	// FindNeedingReminders returns open tasks, across all tenants, due before the horizon
	FindNeedingReminders(ctx context.Context, horizon time.Time) ([]ReminderCandidate, error)
}

// TimelineEntry is a daily log joined with display names
type TimelineEntry struct {
	Log          DailyLog
	EmployeeName string
	TaskTitle    string
}

// DailyLogRepository persists project timelines
type DailyLogRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*DailyLog, error)
	// Timeline returns logs newest first, optionally bounded by date
	Timeline(ctx context.Context, tenantID, projectID uuid.UUID, from, to *time.Time) ([]TimelineEntry, error)
	Save(ctx context.Context, l *DailyLog) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DocumentRepository persists project documents
type DocumentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Document, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Document, error)
	Save(ctx context.Context, d *Document) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
