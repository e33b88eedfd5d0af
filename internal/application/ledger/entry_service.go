package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryService records and removes expenditures and incomes. Every write
// moves the account balance by the entry's delta inside the same transaction.
type EntryService struct {
	accountRepo     ledger.AccountRepository
	categoryRepo    ledger.CategoryRepository
	tagRepo         ledger.TagRepository
	expenditureRepo ledger.ExpenditureRepository
	incomeRepo      ledger.IncomeRepository
	employeeRepo    workforce.EmployeeRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// EntryRepositories groups the read repositories EntryService validates references with
type EntryRepositories struct {
	Accounts     ledger.AccountRepository
	Categories   ledger.CategoryRepository
	Tags         ledger.TagRepository
	Expenditures ledger.ExpenditureRepository
	Incomes      ledger.IncomeRepository
	Employees    workforce.EmployeeRepository
}

// NewEntryService creates a new EntryService
func NewEntryService(repos EntryRepositories, txScope TransactionScope, logger *zap.Logger) *EntryService {
	return &EntryService{
		accountRepo:     repos.Accounts,
		categoryRepo:    repos.Categories,
		tagRepo:         repos.Tags,
		expenditureRepo: repos.Expenditures,
		incomeRepo:      repos.Incomes,
		employeeRepo:    repos.Employees,
		txScope:         txScope,
		logger:          common.Nop(logger),
	}
}

// SetEventPublisher sets the publisher that receives entry events after commit
func (s *EntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateExpenditure records money leaving an account
func (s *EntryService) CreateExpenditure(ctx context.Context, actor identity.Actor, req CreateEntryRequest) (*EntryResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	expenditure, err := ledger.NewExpenditure(actor.CompanyID, toEntryInput(req), req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyReferences(ctx, actor.CompanyID, &expenditure.Entry, expenditure.EmployeeID); err != nil {
		return nil, common.Fail(s.logger, "verify expenditure references", err)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ExpenditureRepo().Create(ctx, expenditure); err != nil {
			return err
		}
		return repos.AccountRepo().AdjustBalance(ctx, actor.CompanyID, expenditure.AccountID, expenditure.BalanceDelta())
	})
	if err != nil {
		return nil, common.Fail(s.logger, "create expenditure", err)
	}

	s.publish(ctx, &expenditure.BaseAggregateRoot)
	resp := ToExpenditureResponse(expenditure)
	return &resp, nil
}

// CreateIncome records money entering an account
func (s *EntryService) CreateIncome(ctx context.Context, actor identity.Actor, req CreateEntryRequest) (*EntryResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	income, err := ledger.NewIncome(actor.CompanyID, toEntryInput(req))
	if err != nil {
		return nil, err
	}
	if err := s.verifyReferences(ctx, actor.CompanyID, &income.Entry, nil); err != nil {
		return nil, common.Fail(s.logger, "verify income references", err)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.IncomeRepo().Create(ctx, income); err != nil {
			return err
		}
		return repos.AccountRepo().AdjustBalance(ctx, actor.CompanyID, income.AccountID, income.BalanceDelta())
	})
	if err != nil {
		return nil, common.Fail(s.logger, "create income", err)
	}

	s.publish(ctx, &income.BaseAggregateRoot)
	resp := ToIncomeResponse(income)
	return &resp, nil
}

// DeleteExpenditure removes an expenditure and returns its amount to the account
func (s *EntryService) DeleteExpenditure(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	expenditure, err := s.expenditureRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return common.Fail(s.logger, "load expenditure", err)
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ExpenditureRepo().DeleteForTenant(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		return repos.AccountRepo().AdjustBalance(ctx, actor.CompanyID, expenditure.AccountID, expenditure.BalanceDelta().Neg())
	})
	if err != nil {
		return common.Fail(s.logger, "delete expenditure", err)
	}
	expenditure.MarkDeleted()
	s.publish(ctx, &expenditure.BaseAggregateRoot)
	return nil
}

// DeleteIncome removes an income and takes its amount back from the account
func (s *EntryService) DeleteIncome(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	income, err := s.incomeRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return common.Fail(s.logger, "load income", err)
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.IncomeRepo().DeleteForTenant(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		return repos.AccountRepo().AdjustBalance(ctx, actor.CompanyID, income.AccountID, income.BalanceDelta().Neg())
	})
	if err != nil {
		return common.Fail(s.logger, "delete income", err)
	}
	income.MarkDeleted()
	s.publish(ctx, &income.BaseAggregateRoot)
	return nil
}

// GetExpenditure returns one expenditure
func (s *EntryService) GetExpenditure(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EntryResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	expenditure, err := s.expenditureRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load expenditure", err)
	}
	resp := ToExpenditureResponse(expenditure)
	return &resp, nil
}

// GetIncome returns one income
func (s *EntryService) GetIncome(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EntryResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	income, err := s.incomeRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load income", err)
	}
	resp := ToIncomeResponse(income)
	return &resp, nil
}

// ListExpenditures lists expenditures newest first
func (s *EntryService) ListExpenditures(ctx context.Context, actor identity.Actor, filter EntryListFilter) ([]EntryResponse, int64, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, 0, err
	}
	rows, total, err := s.expenditureRepo.FindAllForTenant(ctx, actor.CompanyID, filter.toDomain())
	if err != nil {
		return nil, 0, common.Fail(s.logger, "list expenditures", err)
	}
	out := make([]EntryResponse, len(rows))
	for i := range rows {
		out[i] = ToExpenditureResponse(&rows[i])
	}
	return out, total, nil
}

// ListIncomes lists incomes newest first
func (s *EntryService) ListIncomes(ctx context.Context, actor identity.Actor, filter EntryListFilter) ([]EntryResponse, int64, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, 0, err
	}
	filter.EmployeeID = nil
	rows, total, err := s.incomeRepo.FindAllForTenant(ctx, actor.CompanyID, filter.toDomain())
	if err != nil {
		return nil, 0, common.Fail(s.logger, "list incomes", err)
	}
	out := make([]EntryResponse, len(rows))
	for i := range rows {
		out[i] = ToIncomeResponse(&rows[i])
	}
	return out, total, nil
}

// verifyReferences checks that every id on the entry belongs to the tenant
func (s *EntryService) verifyReferences(ctx context.Context, tenantID uuid.UUID, e *ledger.Entry, employeeID *uuid.UUID) error {
	if _, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, e.AccountID); err != nil {
		return notFoundAs(err, "Account")
	}
	if e.CategoryID != nil {
		if _, err := s.categoryRepo.FindVisible(ctx, tenantID, *e.CategoryID); err != nil {
			return notFoundAs(err, "Category")
		}
	}
	if employeeID != nil {
		if _, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, *employeeID); err != nil {
			return notFoundAs(err, "Employee")
		}
	}
	if len(e.TagIDs) > 0 {
		tags, err := s.tagRepo.FindByIDsForTenant(ctx, tenantID, e.TagIDs)
		if err != nil {
			return err
		}
		if len(tags) != len(e.TagIDs) {
			return common.NotFound("Tag")
		}
	}
	return nil
}

func (s *EntryService) publish(ctx context.Context, agg *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish ledger events", zap.Error(err))
	}
	agg.ClearDomainEvents()
}

func notFoundAs(err error, resource string) error {
	if common.IsNotFound(err) {
		return common.NotFound(resource)
	}
	return err
}

func toEntryInput(req CreateEntryRequest) ledger.EntryInput {
	return ledger.EntryInput{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	}
}
