package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
)

// TransactionScope runs ledger writes atomically.
// If fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the ledger repositories bound to one transaction
type TransactionalRepositories interface {
	AccountRepo() ledger.AccountRepository
	CategoryRepo() ledger.CategoryRepository
	ExpenditureRepo() ledger.ExpenditureRepository
	IncomeRepo() ledger.IncomeRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in tests.
type NoOpTransactionScope struct {
	accountRepo     ledger.AccountRepository
	categoryRepo    ledger.CategoryRepository
	expenditureRepo ledger.ExpenditureRepository
	incomeRepo      ledger.IncomeRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	accountRepo ledger.AccountRepository,
	categoryRepo ledger.CategoryRepository,
	expenditureRepo ledger.ExpenditureRepository,
	incomeRepo ledger.IncomeRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		expenditureRepo: expenditureRepo,
		incomeRepo:      incomeRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) AccountRepo() ledger.AccountRepository         { return s.accountRepo }
func (s *NoOpTransactionScope) CategoryRepo() ledger.CategoryRepository       { return s.categoryRepo }
func (s *NoOpTransactionScope) ExpenditureRepo() ledger.ExpenditureRepository { return s.expenditureRepo }
func (s *NoOpTransactionScope) IncomeRepo() ledger.IncomeRepository           { return s.incomeRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
