package recurrence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/recurrence"
)

// TransactionScope runs one template's processing atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories a processing step writes through
type TransactionalRepositories interface {
	RecurringRepo() recurrence.Repository
	AccountRepo() ledger.AccountRepository
	ExpenditureRepo() ledger.ExpenditureRepository
	IncomeRepo() ledger.IncomeRepository
}

// NoOpTransactionScope runs fn directly against the given repositories
type NoOpTransactionScope struct {
	recurringRepo   recurrence.Repository
	accountRepo     ledger.AccountRepository
	expenditureRepo ledger.ExpenditureRepository
	incomeRepo      ledger.IncomeRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	recurringRepo recurrence.Repository,
	accountRepo ledger.AccountRepository,
	expenditureRepo ledger.ExpenditureRepository,
	incomeRepo ledger.IncomeRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		recurringRepo:   recurringRepo,
		accountRepo:     accountRepo,
		expenditureRepo: expenditureRepo,
		incomeRepo:      incomeRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) RecurringRepo() recurrence.Repository          { return s.recurringRepo }
func (s *NoOpTransactionScope) AccountRepo() ledger.AccountRepository         { return s.accountRepo }
func (s *NoOpTransactionScope) ExpenditureRepo() ledger.ExpenditureRepository { return s.expenditureRepo }
func (s *NoOpTransactionScope) IncomeRepo() ledger.IncomeRepository           { return s.incomeRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
