package project

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a project
type Status string

const (
	StatusPlanning  Status = "PLANNING"
	StatusActive    Status = "ACTIVE"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the project status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Details carries the editable fields of a project
type Details struct {
	Name        string
	Description string
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	ClientID    *uuid.UUID
}

// Project groups tasks, team members, logs and documents
type Project struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	ClientID    *uuid.UUID
}

// NewProject creates a project, PLANNING unless a status is given
func NewProject(tenantID uuid.UUID, d Details) (*Project, error) {
	p := &Project{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *Project) Update(d Details) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Project) apply(d Details) error {
	name := strings.TrimSpace(d.Name)
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	status := d.Status
	if status == "" {
		status = StatusPlanning
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Project status is not valid")
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return shared.NewDomainError("INVALID_END_DATE", "End date cannot be before start date")
	}
	p.Name = name
	p.Description = strings.TrimSpace(d.Description)
	p.Status = status
	p.StartDate = d.StartDate
	p.EndDate = d.EndDate
	p.ClientID = d.ClientID
	return nil
}

// MemberRole is the role of an employee on a project team
type MemberRole string

const (
	MemberRoleLead      MemberRole = "LEAD"
	MemberRoleDeveloper MemberRole = "DEVELOPER"
	MemberRoleReviewer  MemberRole = "REVIEWER"
	MemberRoleDesigner  MemberRole = "DESIGNER"
	MemberRoleQA        MemberRole = "QA"
)

// IsValid checks if the role is known
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleLead, MemberRoleDeveloper, MemberRoleReviewer, MemberRoleDesigner, MemberRoleQA:
		return true
	}
	return false
}

// Member is an employee on a project team
type Member struct {
	TenantID   uuid.UUID
	ProjectID  uuid.UUID
	EmployeeID uuid.UUID
	Role       MemberRole
	CreatedAt  time.Time
}

// NewMember creates a team membership, DEVELOPER unless a role is given
func NewMember(tenantID, projectID, employeeID uuid.UUID, role MemberRole) (*Member, error) {
	if role == "" {
		role = MemberRoleDeveloper
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Team role is not valid")
	}
	return &Member{
		TenantID:   tenantID,
		ProjectID:  projectID,
		EmployeeID: employeeID,
		Role:       role,
		CreatedAt:  time.Now(),
	}, nil
}

// Module groups tasks inside a project
type Module struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	Name        string
	Description string
	SortOrder   int
}

// NewModule creates a module
func NewModule(tenantID, projectID uuid.UUID, name, description string, sortOrder int) (*Module, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	if sortOrder < 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be negative")
	}
	return &Module{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Name:                name,
		Description:         strings.TrimSpace(description),
		SortOrder:           sortOrder,
	}, nil
}
