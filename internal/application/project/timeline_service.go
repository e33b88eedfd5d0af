package project

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TimelineService reads and writes a project's daily logs
type TimelineService struct {
	projects   project.ProjectRepository
	tasks      project.TaskRepository
	logs       project.DailyLogRepository
	attributor *Attributor
	logger     *zap.Logger
}

// NewTimelineService creates a new TimelineService
func NewTimelineService(
	projects project.ProjectRepository,
	tasks project.TaskRepository,
	logs project.DailyLogRepository,
	attributor *Attributor,
	logger *zap.Logger,
) *TimelineService {
	return &TimelineService{
		projects:   projects,
		tasks:      tasks,
		logs:       logs,
		attributor: attributor,
		logger:     common.Nop(logger),
	}
}

// Timeline returns the project's logs newest first
func (s *TimelineService) Timeline(ctx context.Context, actor identity.Actor, projectID uuid.UUID, filter TimelineFilter) ([]LogResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, projectID); err != nil {
		return nil, common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	rows, err := s.logs.Timeline(ctx, actor.CompanyID, projectID, filter.From, filter.To)
	if err != nil {
		return nil, common.Fail(s.logger, "load timeline", err)
	}
	out := make([]LogResponse, len(rows))
	for i := range rows {
		out[i] = ToLogResponse(&rows[i].Log)
		out[i].EmployeeName = rows[i].EmployeeName
		out[i].TaskTitle = rows[i].TaskTitle
	}
	return out, nil
}

// CreateManualLog records work by hand. It is credited through the same
// attribution chain as workflow logs, and fails when nobody can be credited.
func (s *TimelineService) CreateManualLog(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req ManualLogRequest) (*LogResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, projectID); err != nil {
		return nil, common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	if req.TaskID != nil {
		task, err := s.tasks.FindByIDForTenant(ctx, actor.CompanyID, *req.TaskID)
		if err != nil {
			return nil, common.Fail(s.logger, "load task", notFoundAs(err, "Task"))
		}
		if task.ProjectID != projectID {
			return nil, common.NotFound("Task")
		}
	}
	employeeID, err := s.attributor.Resolve(ctx, actor)
	if err != nil {
		return nil, common.Fail(s.logger, "attribute log", err)
	}
	entry, err := project.NewManualLog(actor.CompanyID, projectID, req.TaskID, employeeID, req.Description, req.HoursSpent, req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.logs.Save(ctx, entry); err != nil {
		return nil, common.Fail(s.logger, "create log", err)
	}
	resp := ToLogResponse(entry)
	return &resp, nil
}

// UpdateLog edits the description and hours of a log
func (s *TimelineService) UpdateLog(ctx context.Context, actor identity.Actor, id uuid.UUID, req EditLogRequest) (*LogResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	entry, err := s.logs.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load log", notFoundAs(err, "Log"))
	}
	if err := entry.Edit(req.Description, req.HoursSpent); err != nil {
		return nil, err
	}
	if err := s.logs.Save(ctx, entry); err != nil {
		return nil, common.Fail(s.logger, "update log", err)
	}
	resp := ToLogResponse(entry)
	return &resp, nil
}

// DeleteLog removes a log
func (s *TimelineService) DeleteLog(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.logs.FindByIDForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "load log", notFoundAs(err, "Log"))
	}
	return common.Fail(s.logger, "delete log", s.logs.DeleteForTenant(ctx, actor.CompanyID, id))
}
