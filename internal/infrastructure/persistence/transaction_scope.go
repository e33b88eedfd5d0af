package persistence

import (
	"context"

	appidentity "github.com/bizledger/backend/internal/application/identity"
	appledger "github.com/bizledger/backend/internal/application/ledger"
	appproject "github.com/bizledger/backend/internal/application/project"
	apprecurrence "github.com/bizledger/backend/internal/application/recurrence"
	appworkforce "github.com/bizledger/backend/internal/application/workforce"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/workforce"
	"gorm.io/gorm"
)

// gormTransactionalRepositories hands out repositories bound to one transaction.
// It satisfies the TransactionalRepositories of every application package.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) AccountRepo() ledger.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormTransactionalRepositories) CategoryRepo() ledger.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) ExpenditureRepo() ledger.ExpenditureRepository {
	return NewGormExpenditureRepository(r.tx)
}

func (r *gormTransactionalRepositories) IncomeRepo() ledger.IncomeRepository {
	return NewGormIncomeRepository(r.tx)
}

func (r *gormTransactionalRepositories) TagRepo() ledger.TagRepository {
	return NewGormTagRepository(r.tx)
}

func (r *gormTransactionalRepositories) RecurringRepo() recurrence.Repository {
	return NewGormRecurringTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProjectRepo() project.ProjectRepository {
	return NewGormProjectRepository(r.tx)
}

func (r *gormTransactionalRepositories) TaskRepo() project.TaskRepository {
	return NewGormTaskRepository(r.tx)
}

func (r *gormTransactionalRepositories) DailyLogRepo() project.DailyLogRepository {
	return NewGormDailyLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) MemberRepo() project.MemberRepository {
	return NewGormMemberRepository(r.tx)
}

func (r *gormTransactionalRepositories) ModuleRepo() project.ModuleRepository {
	return NewGormModuleRepository(r.tx)
}

func (r *gormTransactionalRepositories) CompanyRepo() identity.CompanyRepository {
	return NewGormCompanyRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) EmployeeRepo() workforce.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

// GormTransactionScope runs a function in one database transaction.
// If the function returns an error, the transaction is rolled back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// LedgerScope adapts the scope to the ledger services
func (s *GormTransactionScope) LedgerScope() appledger.TransactionScope {
	return ledgerScope{s}
}

// RecurrenceScope adapts the scope to the recurrence service
func (s *GormTransactionScope) RecurrenceScope() apprecurrence.TransactionScope {
	return recurrenceScope{s}
}

// ProjectScope adapts the scope to the project services
func (s *GormTransactionScope) ProjectScope() appproject.TransactionScope {
	return projectScope{s}
}

// IdentityScope adapts the scope to the identity services
func (s *GormTransactionScope) IdentityScope() appidentity.TransactionScope {
	return identityScope{s}
}

// WorkforceScope adapts the scope to the employee service
func (s *GormTransactionScope) WorkforceScope() appworkforce.TransactionScope {
	return workforceScope{s}
}

type ledgerScope struct{ s *GormTransactionScope }

func (l ledgerScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return l.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type recurrenceScope struct{ s *GormTransactionScope }

func (r recurrenceScope) Execute(ctx context.Context, fn func(repos apprecurrence.TransactionalRepositories) error) error {
	return r.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type projectScope struct{ s *GormTransactionScope }

func (p projectScope) Execute(ctx context.Context, fn func(repos appproject.TransactionalRepositories) error) error {
	return p.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type identityScope struct{ s *GormTransactionScope }

func (i identityScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return i.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type workforceScope struct{ s *GormTransactionScope }

func (w workforceScope) Execute(ctx context.Context, fn func(repos appworkforce.TransactionalRepositories) error) error {
	return w.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

var (
	_ appledger.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ apprecurrence.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appproject.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
	_ appidentity.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appworkforce.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
)
