package project

import (
	"time"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectRequest represents a request to create or edit a project
type ProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Status      string     `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED CANCELLED"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ClientID    *uuid.UUID `json:"client_id"`
}

func (r ProjectRequest) toDetails() project.Details {
	return project.Details{
		Name:        r.Name,
		Description: r.Description,
		Status:      project.Status(r.Status),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		ClientID:    r.ClientID,
	}
}

// ProjectListFilter defines filtering options for project list queries
type ProjectListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED CANCELLED"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f ProjectListFilter) toDomain() project.ProjectFilter {
	df := project.ProjectFilter{Filter: pageFilter(f.Page, f.PageSize, "created_at")}
	df.Search = f.Search
	if f.Status != "" {
		s := project.Status(f.Status)
		df.Status = &s
	}
	return df
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	TagID       *uuid.UUID `json:"tag_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToProjectResponse converts a domain project
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		ClientID:    p.ClientID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// AssignMemberRequest puts an employee on a project team
type AssignMemberRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Role       string    `json:"role" binding:"omitempty,oneof=LEAD DEVELOPER REVIEWER DESIGNER QA"`
}

// MemberResponse represents a team member in API responses
type MemberResponse struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	JoinedAt   time.Time `json:"joined_at"`
}

// ModuleRequest represents a request to create a module
type ModuleRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   int    `json:"sort_order" binding:"min=0"`
}

// ModuleResponse represents a module in API responses
type ModuleResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
}

// ToModuleResponse converts a domain module
func ToModuleResponse(m *project.Module) ModuleResponse {
	return ModuleResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Description: m.Description,
		SortOrder:   m.SortOrder,
	}
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	ProjectID   uuid.UUID   `json:"project_id" binding:"required"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	UpdateTaskRequest
}

// UpdateTaskRequest carries the editable task fields
type UpdateTaskRequest struct {
	Title           string           `json:"title" binding:"required,min=2,max=300"`
	Description     string           `json:"description" binding:"max=5000"`
	Priority        string           `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate         *time.Time       `json:"due_date"`
	ModuleID        *uuid.UUID       `json:"module_id"`
	EstimatedHours  *decimal.Decimal `json:"estimated_hours"`
	ActualHours     *decimal.Decimal `json:"actual_hours"`
	IsClientVisible bool             `json:"is_client_visible"`
}

func (r UpdateTaskRequest) toDetails() project.TaskDetails {
	return project.TaskDetails{
		Title:           r.Title,
		Description:     r.Description,
		Priority:        project.Priority(r.Priority),
		DueDate:         r.DueDate,
		ModuleID:        r.ModuleID,
		EstimatedHours:  r.EstimatedHours,
		ActualHours:     r.ActualHours,
		IsClientVisible: r.IsClientVisible,
	}
}

// UpdateStatusRequest moves a task through the workflow
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=TODO IN_PROGRESS IN_REVIEW COMPLETED CANCELLED"`
}

// VisibilityRequest toggles client visibility
type VisibilityRequest struct {
	IsClientVisible bool `json:"is_client_visible"`
}

// DecisionRequest carries an optional reviewer note
type DecisionRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

// TaskListFilter defines filtering options for task list queries.
// Id filters are parsed by the HTTP layer rather than form binding.
type TaskListFilter struct {
	ProjectID  *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=TODO IN_PROGRESS IN_REVIEW COMPLETED CANCELLED"`
	AssigneeID *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f TaskListFilter) toDomain() project.TaskFilter {
	df := project.TaskFilter{
		Filter:     pageFilter(f.Page, f.PageSize, "created_at"),
		ProjectID:  f.ProjectID,
		AssigneeID: f.AssigneeID,
	}
	if f.Status != "" {
		s := project.TaskStatus(f.Status)
		df.Status = &s
	}
	return df
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID              uuid.UUID        `json:"id"`
	ProjectID       uuid.UUID        `json:"project_id"`
	ModuleID        *uuid.UUID       `json:"module_id,omitempty"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Status          string           `json:"status"`
	Priority        string           `json:"priority"`
	ApprovalStatus  *string          `json:"approval_status,omitempty"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	AssigneeID      *uuid.UUID       `json:"assignee_id,omitempty"`
	AssigneeIDs     []uuid.UUID      `json:"assignee_ids"`
	IsClientVisible bool             `json:"is_client_visible"`
	EstimatedHours  *decimal.Decimal `json:"estimated_hours,omitempty"`
	ActualHours     *decimal.Decimal `json:"actual_hours,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToTaskResponse converts a domain task
func ToTaskResponse(t *project.Task) TaskResponse {
	resp := TaskResponse{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		ModuleID:        t.ModuleID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          string(t.Status),
		Priority:        string(t.Priority),
		DueDate:         t.DueDate,
		AssigneeID:      t.AssigneeID,
		AssigneeIDs:     append([]uuid.UUID{}, t.AssigneeIDs...),
		IsClientVisible: t.IsClientVisible,
		EstimatedHours:  t.EstimatedHours,
		ActualHours:     t.ActualHours,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if t.ApprovalStatus != nil {
		s := string(*t.ApprovalStatus)
		resp.ApprovalStatus = &s
	}
	return resp
}

// ManualLogRequest represents a hand-written timeline entry
type ManualLogRequest struct {
	TaskID      *uuid.UUID       `json:"task_id"`
	Date        time.Time        `json:"date" binding:"required"`
	Description string           `json:"description" binding:"required,min=1,max=2000"`
	HoursSpent  *decimal.Decimal `json:"hours_spent"`
}

// EditLogRequest edits a timeline entry
type EditLogRequest struct {
	Description string           `json:"description" binding:"required,min=1,max=2000"`
	HoursSpent  *decimal.Decimal `json:"hours_spent"`
}

// TimelineFilter bounds a timeline query by date
type TimelineFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// LogResponse represents a daily log in API responses
type LogResponse struct {
	ID           uuid.UUID        `json:"id"`
	ProjectID    uuid.UUID        `json:"project_id"`
	TaskID       *uuid.UUID       `json:"task_id,omitempty"`
	TaskTitle    string           `json:"task_title,omitempty"`
	EmployeeID   uuid.UUID        `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Date         time.Time        `json:"date"`
	Description  string           `json:"description"`
	HoursSpent   *decimal.Decimal `json:"hours_spent,omitempty"`
	Source       string           `json:"source"`
}

// ToLogResponse converts a domain daily log
func ToLogResponse(l *project.DailyLog) LogResponse {
	return LogResponse{
		ID:          l.ID,
		ProjectID:   l.ProjectID,
		TaskID:      l.TaskID,
		EmployeeID:  l.EmployeeID,
		Date:        l.Date,
		Description: l.Description,
		HoursSpent:  l.HoursSpent,
		Source:      string(l.Source),
	}
}

// LinkDocumentRequest registers an externally hosted document
type LinkDocumentRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
	Type string `json:"type" binding:"required,oneof=CONTRACT INVOICE DESIGN SOW REPORT IMAGE VIDEO OTHER"`
	URL  string `json:"url" binding:"required,url"`
}

// UploadDocumentRequest asks for a presigned upload of a new document
type UploadDocumentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Type        string `json:"type" binding:"required,oneof=CONTRACT INVOICE DESIGN SOW REPORT IMAGE VIDEO OTHER"`
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadDocumentResponse returns the stored document and where to PUT it
type UploadDocumentResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	URL         string    `json:"url,omitempty"`
	Stored      bool      `json:"stored"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToDocumentResponse converts a domain document
func ToDocumentResponse(d *project.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Type:        string(d.Type),
		URL:         d.URL,
		Stored:      d.IsStored(),
		ContentType: d.ContentType,
		CreatedAt:   d.CreatedAt,
	}
}

func pageFilter(page, pageSize int, orderBy string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.OrderBy = orderBy
	f.OrderDir = "desc"
	return f
}
