package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for projects
type ProjectModel struct {
	TenantAggregateModel
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Status      project.Status `gorm:"type:varchar(20);not null;index"`
	StartDate   *time.Time
	EndDate     *time.Time
	ClientID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Status:              m.Status,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		ClientID:            m.ClientID,
	}
}

// ProjectModelFromDomain creates a persistence model from a domain Project
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		ClientID:    p.ClientID,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// ProjectMemberModel is a row of a project team
type ProjectMemberModel struct {
	ProjectID  uuid.UUID          `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID          `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	Role       project.MemberRole `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProjectMemberModel) TableName() string {
	return "project_employees"
}

// ToDomain converts the persistence model to a domain Member
func (m *ProjectMemberModel) ToDomain() project.Member {
	return project.Member{
		TenantID:   m.TenantID,
		ProjectID:  m.ProjectID,
		EmployeeID: m.EmployeeID,
		Role:       m.Role,
		CreatedAt:  m.CreatedAt,
	}
}

// ProjectMemberModelFromDomain creates a persistence model from a domain Member
func ProjectMemberModelFromDomain(mem *project.Member) *ProjectMemberModel {
	return &ProjectMemberModel{
		ProjectID:  mem.ProjectID,
		EmployeeID: mem.EmployeeID,
		TenantID:   mem.TenantID,
		Role:       mem.Role,
		CreatedAt:  mem.CreatedAt,
	}
}

// ModuleModel is the persistence model for project modules
type ModuleModel struct {
	TenantAggregateModel
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	SortOrder   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ModuleModel) TableName() string {
	return "modules"
}

// ToDomain converts the persistence model to a domain Module
func (m *ModuleModel) ToDomain() *project.Module {
	return &project.Module{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		Name:                m.Name,
		Description:         m.Description,
		SortOrder:           m.SortOrder,
	}
}

// ModuleModelFromDomain creates a persistence model from a domain Module
func ModuleModelFromDomain(mod *project.Module) *ModuleModel {
	m := &ModuleModel{
		ProjectID:   mod.ProjectID,
		Name:        mod.Name,
		Description: mod.Description,
		SortOrder:   mod.SortOrder,
	}
	m.FromDomainTenantAggregateRoot(mod.TenantAggregateRoot)
	return m
}

// TaskModel is the persistence model for tasks.
// AssigneeID is the legacy single assignee kept beside task_assignees.
type TaskModel struct {
	TenantAggregateModel
	ProjectID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	ModuleID        *uuid.UUID              `gorm:"type:uuid;index"`
	Title           string                  `gorm:"type:varchar(300);not null"`
	Description     string                  `gorm:"type:text"`
	Status          project.TaskStatus      `gorm:"type:varchar(20);not null;index"`
	Priority        project.Priority        `gorm:"type:varchar(10);not null"`
	ApprovalStatus  *project.ApprovalStatus `gorm:"type:varchar(10)"`
	DueDate         *time.Time              `gorm:"index"`
	AssigneeID      *uuid.UUID              `gorm:"type:uuid;index"`
	IsClientVisible bool                    `gorm:"not null;default:false"`
	EstimatedHours  *decimal.Decimal        `gorm:"type:decimal(8,2)"`
	ActualHours     *decimal.Decimal        `gorm:"type:decimal(8,2)"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task.
// Assignee ids are loaded separately by the repository.
func (m *TaskModel) ToDomain(assigneeIDs []uuid.UUID) *project.Task {
	if assigneeIDs == nil {
		assigneeIDs = []uuid.UUID{}
	}
	return &project.Task{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		ModuleID:            m.ModuleID,
		Title:               m.Title,
		Description:         m.Description,
		Status:              m.Status,
		Priority:            m.Priority,
		ApprovalStatus:      m.ApprovalStatus,
		DueDate:             m.DueDate,
		AssigneeID:          m.AssigneeID,
		AssigneeIDs:         assigneeIDs,
		IsClientVisible:     m.IsClientVisible,
		EstimatedHours:      m.EstimatedHours,
		ActualHours:         m.ActualHours,
	}
}

// TaskModelFromDomain creates a persistence model from a domain Task
func TaskModelFromDomain(t *project.Task) *TaskModel {
	m := &TaskModel{
		ProjectID:       t.ProjectID,
		ModuleID:        t.ModuleID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status,
		Priority:        t.Priority,
		ApprovalStatus:  t.ApprovalStatus,
		DueDate:         t.DueDate,
		AssigneeID:      t.AssigneeID,
		IsClientVisible: t.IsClientVisible,
		EstimatedHours:  t.EstimatedHours,
		ActualHours:     t.ActualHours,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// TaskAssigneeModel is one row of the task assignee set
type TaskAssigneeModel struct {
	TaskID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaskAssigneeModel) TableName() string {
	return "task_assignees"
}

// DailyLogModel is the persistence model for timeline entries
type DailyLogModel struct {
	TenantAggregateModel
	ProjectID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	TaskID      *uuid.UUID        `gorm:"type:uuid;index"`
	EmployeeID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Date        time.Time         `gorm:"not null;index"`
	Description string            `gorm:"type:text;not null"`
	HoursSpent  *decimal.Decimal  `gorm:"type:decimal(6,2)"`
	Source      project.LogSource `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (DailyLogModel) TableName() string {
	return "daily_logs"
}

// ToDomain converts the persistence model to a domain DailyLog
func (m *DailyLogModel) ToDomain() *project.DailyLog {
	return &project.DailyLog{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		TaskID:              m.TaskID,
		EmployeeID:          m.EmployeeID,
		Date:                m.Date,
		Description:         m.Description,
		HoursSpent:          m.HoursSpent,
		Source:              m.Source,
	}
}

// DailyLogModelFromDomain creates a persistence model from a domain DailyLog
func DailyLogModelFromDomain(l *project.DailyLog) *DailyLogModel {
	m := &DailyLogModel{
		ProjectID:   l.ProjectID,
		TaskID:      l.TaskID,
		EmployeeID:  l.EmployeeID,
		Date:        l.Date,
		Description: l.Description,
		HoursSpent:  l.HoursSpent,
		Source:      l.Source,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}

// DocumentModel is the persistence model for project documents
type DocumentModel struct {
	TenantAggregateModel
	ProjectID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Name        string               `gorm:"type:varchar(300);not null"`
	Type        project.DocumentType `gorm:"type:varchar(20);not null"`
	URL         string               `gorm:"type:varchar(1000)"`
	StorageKey  string               `gorm:"type:varchar(500)"`
	ContentType string               `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *project.Document {
	return &project.Document{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		Name:                m.Name,
		Type:                m.Type,
		URL:                 m.URL,
		StorageKey:          m.StorageKey,
		ContentType:         m.ContentType,
	}
}

// DocumentModelFromDomain creates a persistence model from a domain Document
func DocumentModelFromDomain(d *project.Document) *DocumentModel {
	m := &DocumentModel{
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Type:        d.Type,
		URL:         d.URL,
		StorageKey:  d.StorageKey,
		ContentType: d.ContentType,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}
