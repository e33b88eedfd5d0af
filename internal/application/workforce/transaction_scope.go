package workforce

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/workforce"
)

// TransactionScope runs employee removal atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories touched when an
// employee is deleted
type TransactionalRepositories interface {
	EmployeeRepo() workforce.EmployeeRepository
	ExpenditureRepo() ledger.ExpenditureRepository
	TaskRepo() project.TaskRepository
	MemberRepo() project.MemberRepository
}

// NoOpTransactionScope runs fn against plain repositories
type NoOpTransactionScope struct {
	employeeRepo    workforce.EmployeeRepository
	expenditureRepo ledger.ExpenditureRepository
	taskRepo        project.TaskRepository
	memberRepo      project.MemberRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	employeeRepo workforce.EmployeeRepository,
	expenditureRepo ledger.ExpenditureRepository,
	taskRepo project.TaskRepository,
	memberRepo project.MemberRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		employeeRepo:    employeeRepo,
		expenditureRepo: expenditureRepo,
		taskRepo:        taskRepo,
		memberRepo:      memberRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) EmployeeRepo() workforce.EmployeeRepository    { return s.employeeRepo }
func (s *NoOpTransactionScope) ExpenditureRepo() ledger.ExpenditureRepository { return s.expenditureRepo }
func (s *NoOpTransactionScope) TaskRepo() project.TaskRepository              { return s.taskRepo }
func (s *NoOpTransactionScope) MemberRepo() project.MemberRepository          { return s.memberRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
