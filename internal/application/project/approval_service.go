package project

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultApproverName is used when the reviewer's session carries no name
const defaultApproverName = "Admin"

// ApprovalService records reviewer verdicts on tasks
type ApprovalService struct {
	tasks project.TaskRepository
	flow  *workflow
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(tasks project.TaskRepository, txScope TransactionScope, attributor *Attributor, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		tasks: tasks,
		flow: &workflow{
			txScope:    txScope,
			attributor: attributor,
			now:        nowUTC,
			logger:     common.Nop(logger),
		},
	}
}

// SetEventPublisher sets the publisher that receives verdict events after commit
func (s *ApprovalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.flow.eventPublisher = publisher
}

// Approve marks a task in review, or already completed, as approved
func (s *ApprovalService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID, req DecisionRequest) (*TaskResponse, error) {
	return s.decide(ctx, actor, id, func(task *project.Task, approver string) (string, error) {
		if err := task.Approve(approver); err != nil {
			return "", err
		}
		return project.ApprovalMessage(project.ApprovalApproved, approver, task.Title, req.Note), nil
	})
}

// Reject marks a task in review, or already completed, as rejected
func (s *ApprovalService) Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req DecisionRequest) (*TaskResponse, error) {
	return s.decide(ctx, actor, id, func(task *project.Task, approver string) (string, error) {
		if err := task.Reject(approver, req.Note); err != nil {
			return "", err
		}
		return project.ApprovalMessage(project.ApprovalRejected, approver, task.Title, req.Note), nil
	})
}

// RequestChanges rejects a task in review and sends it back to IN_PROGRESS
func (s *ApprovalService) RequestChanges(ctx context.Context, actor identity.Actor, id uuid.UUID, req DecisionRequest) (*TaskResponse, error) {
	return s.decide(ctx, actor, id, func(task *project.Task, approver string) (string, error) {
		if err := task.RequestChanges(approver, req.Note); err != nil {
			return "", err
		}
		return project.ChangesRequestedMessage(approver, task.Title, req.Note), nil
	})
}

func (s *ApprovalService) decide(
	ctx context.Context,
	actor identity.Actor,
	id uuid.UUID,
	apply func(task *project.Task, approver string) (string, error),
) (*TaskResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.flow.logger, "load task", notFoundAs(err, "Task"))
	}
	message, err := apply(task, actor.DisplayName(defaultApproverName))
	if err != nil {
		return nil, err
	}
	err = s.flow.commit(ctx, actor, task, message, func(repos TransactionalRepositories) error {
		return repos.TaskRepo().Update(ctx, task)
	})
	if err != nil {
		return nil, common.Fail(s.flow.logger, "record approval", err)
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}
