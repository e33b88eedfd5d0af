package project

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectService manages projects. Writes are ADMIN-only; clients only see
// the projects they are the client of.
type ProjectService struct {
	projects project.ProjectRepository
	tags     ledger.TagRepository
	txScope  TransactionScope
	logger   *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projects project.ProjectRepository,
	tags ledger.TagRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		tags:     tags,
		txScope:  txScope,
		logger:   common.Nop(logger),
	}
}

// Create makes the project and its "Project: <name>" tag together
func (s *ProjectService) Create(ctx context.Context, actor identity.Actor, req ProjectRequest) (*ProjectResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	p, err := project.NewProject(actor.CompanyID, req.toDetails())
	if err != nil {
		return nil, err
	}
	tag, err := ledger.NewProjectTag(actor.CompanyID, p.ID, p.Name)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProjectRepo().Save(ctx, p); err != nil {
			return err
		}
		return repos.TagRepo().Save(ctx, tag)
	})
	if err != nil {
		return nil, common.Fail(s.logger, "create project", err)
	}

	resp := ToProjectResponse(p)
	resp.TagID = &tag.ID
	return &resp, nil
}

// Update edits the project
func (s *ProjectService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req ProjectRequest) (*ProjectResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	p, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	if err := p.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, common.Fail(s.logger, "update project", err)
	}
	resp := ToProjectResponse(p)
	return &resp, nil
}

// Delete removes the project with its tasks, team, modules, logs and
// documents. The project tag survives unbound so booked entries keep it.
func (s *ProjectService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	return common.Fail(s.logger, "delete project", s.projects.DeleteForTenant(ctx, actor.CompanyID, id))
}

// Get returns one project
func (s *ProjectService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ProjectResponse, error) {
	p, err := loadVisibleProject(ctx, s.projects, actor, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load project", err)
	}
	resp := ToProjectResponse(p)
	if tag, err := s.tags.FindByProject(ctx, actor.CompanyID, p.ID); err == nil {
		resp.TagID = &tag.ID
	}
	return &resp, nil
}

// List returns a page of projects
func (s *ProjectService) List(ctx context.Context, actor identity.Actor, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
	if err := actor.RequireTenant(); err != nil {
		return nil, 0, err
	}
	df := filter.toDomain()
	if actor.UserType == identity.UserTypeClient {
		clientID := actor.UserID
		df.ClientID = &clientID
	}
	rows, total, err := s.projects.FindAllForTenant(ctx, actor.CompanyID, df)
	if err != nil {
		return nil, 0, common.Fail(s.logger, "list projects", err)
	}
	out := make([]ProjectResponse, len(rows))
	for i := range rows {
		out[i] = ToProjectResponse(&rows[i])
	}
	return out, total, nil
}

// loadVisibleProject loads a project of the actor's company. A client only
// sees projects bound to them; anything else reads as not found.
func loadVisibleProject(ctx context.Context, repo project.ProjectRepository, actor identity.Actor, id uuid.UUID) (*project.Project, error) {
	if err := actor.RequireTenant(); err != nil {
		return nil, err
	}
	p, err := repo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFoundAs(err, "Project")
	}
	if actor.UserType == identity.UserTypeClient && (p.ClientID == nil || *p.ClientID != actor.UserID) {
		return nil, common.NotFound("Project")
	}
	return p, nil
}

func notFoundAs(err error, resource string) error {
	if common.IsNotFound(err) {
		return common.NotFound(resource)
	}
	return err
}
