package project

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModuleService manages the modules that group a project's tasks
type ModuleService struct {
	projects project.ProjectRepository
	modules  project.ModuleRepository
	logger   *zap.Logger
}

// NewModuleService creates a new ModuleService
func NewModuleService(projects project.ProjectRepository, modules project.ModuleRepository, logger *zap.Logger) *ModuleService {
	return &ModuleService{projects: projects, modules: modules, logger: common.Nop(logger)}
}

// Create adds a module to the project
func (s *ModuleService) Create(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req ModuleRequest) (*ModuleResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, projectID); err != nil {
		return nil, common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	m, err := project.NewModule(actor.CompanyID, projectID, req.Name, req.Description, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.modules.Save(ctx, m); err != nil {
		return nil, common.Fail(s.logger, "create module", err)
	}
	resp := ToModuleResponse(m)
	return &resp, nil
}

// List returns the project's modules in sort order
func (s *ModuleService) List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]ModuleResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rows, err := s.modules.FindByProject(ctx, actor.CompanyID, projectID)
	if err != nil {
		return nil, common.Fail(s.logger, "list modules", err)
	}
	out := make([]ModuleResponse, len(rows))
	for i := range rows {
		out[i] = ToModuleResponse(&rows[i])
	}
	return out, nil
}

// Delete removes the module. Its tasks stay in the project without a module.
func (s *ModuleService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.modules.FindByIDForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "load module", notFoundAs(err, "Module"))
	}
	return common.Fail(s.logger, "delete module", s.modules.DeleteForTenant(ctx, actor.CompanyID, id))
}
