package project

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyMember is returned when the employee is already on the team
var ErrAlreadyMember = shared.NewDomainError("ALREADY_EXISTS", "Employee is already on the project team")

// TeamService manages project team membership
type TeamService struct {
	projects  project.ProjectRepository
	members   project.MemberRepository
	employees workforce.EmployeeRepository
	logger    *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(
	projects project.ProjectRepository,
	members project.MemberRepository,
	employees workforce.EmployeeRepository,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		projects:  projects,
		members:   members,
		employees: employees,
		logger:    common.Nop(logger),
	}
}

// Assign puts an employee of the company on the project team
func (s *TeamService) Assign(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req AssignMemberRequest) (*MemberResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, projectID); err != nil {
		return nil, common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	emp, err := s.employees.FindByIDForTenant(ctx, actor.CompanyID, req.EmployeeID)
	if err != nil {
		return nil, common.Fail(s.logger, "load employee", notFoundAs(err, "Employee"))
	}
	member, err := project.NewMember(actor.CompanyID, projectID, emp.ID, project.MemberRole(req.Role))
	if err != nil {
		return nil, err
	}
	exists, err := s.members.Exists(ctx, actor.CompanyID, projectID, emp.ID)
	if err != nil {
		return nil, common.Fail(s.logger, "check team membership", err)
	}
	if exists {
		return nil, ErrAlreadyMember
	}
	if err := s.members.Add(ctx, member); err != nil {
		return nil, common.Fail(s.logger, "add team member", err)
	}
	resp := toMemberResponse(member, emp)
	return &resp, nil
}

// Remove takes an employee off the project team
func (s *TeamService) Remove(ctx context.Context, actor identity.Actor, projectID, employeeID uuid.UUID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	exists, err := s.members.Exists(ctx, actor.CompanyID, projectID, employeeID)
	if err != nil {
		return common.Fail(s.logger, "check team membership", err)
	}
	if !exists {
		return common.NotFound("Team member")
	}
	return common.Fail(s.logger, "remove team member", s.members.Remove(ctx, actor.CompanyID, projectID, employeeID))
}

// List returns the team with employee names
func (s *TeamService) List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]MemberResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, projectID); err != nil {
		return nil, common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	members, err := s.members.FindByProject(ctx, actor.CompanyID, projectID)
	if err != nil {
		return nil, common.Fail(s.logger, "list team", err)
	}
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.EmployeeID
	}
	employees, err := s.employees.FindByIDsForTenant(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, common.Fail(s.logger, "load team employees", err)
	}
	byID := make(map[uuid.UUID]*workforce.Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}
	out := make([]MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i], byID[members[i].EmployeeID]))
	}
	return out, nil
}

func toMemberResponse(m *project.Member, emp *workforce.Employee) MemberResponse {
	resp := MemberResponse{
		EmployeeID: m.EmployeeID,
		Role:       string(m.Role),
		JoinedAt:   m.CreatedAt,
	}
	if emp != nil {
		resp.Name = emp.Name
		resp.Email = emp.Email
	}
	return resp
}
