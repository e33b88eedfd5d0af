package project

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
)

// TransactionScope runs project workflow writes atomically
type TransactionScope interface {
	// Execute runs fn in one database transaction, rolled back if fn fails
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to one transaction.
// A task write and the SYSTEM daily log describing it always share one.
type TransactionalRepositories interface {
	ProjectRepo() project.ProjectRepository
	TaskRepo() project.TaskRepository
	DailyLogRepo() project.DailyLogRepository
	MemberRepo() project.MemberRepository
	ModuleRepo() project.ModuleRepository
	TagRepo() ledger.TagRepository
}

// NoOpTransactionScope runs fn against plain repositories
type NoOpTransactionScope struct {
	projectRepo  project.ProjectRepository
	taskRepo     project.TaskRepository
	dailyLogRepo project.DailyLogRepository
	memberRepo   project.MemberRepository
	moduleRepo   project.ModuleRepository
	tagRepo      ledger.TagRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	projectRepo project.ProjectRepository,
	taskRepo project.TaskRepository,
	dailyLogRepo project.DailyLogRepository,
	memberRepo project.MemberRepository,
	moduleRepo project.ModuleRepository,
	tagRepo ledger.TagRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		projectRepo:  projectRepo,
		taskRepo:     taskRepo,
		dailyLogRepo: dailyLogRepo,
		memberRepo:   memberRepo,
		moduleRepo:   moduleRepo,
		tagRepo:      tagRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProjectRepo() project.ProjectRepository   { return s.projectRepo }
func (s *NoOpTransactionScope) TaskRepo() project.TaskRepository         { return s.taskRepo }
func (s *NoOpTransactionScope) DailyLogRepo() project.DailyLogRepository { return s.dailyLogRepo }
func (s *NoOpTransactionScope) MemberRepo() project.MemberRepository     { return s.memberRepo }
func (s *NoOpTransactionScope) ModuleRepo() project.ModuleRepository     { return s.moduleRepo }
func (s *NoOpTransactionScope) TagRepo() ledger.TagRepository            { return s.tagRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
