package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages the accounts of a company
type AccountService struct {
	accountRepo ledger.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo ledger.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{accountRepo: accountRepo, logger: common.Nop(logger)}
}

// Create opens an account with a non-negative opening balance
func (s *AccountService) Create(ctx context.Context, actor identity.Actor, req CreateAccountRequest) (*AccountResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	account, err := ledger.NewAccount(actor.CompanyID, req.Name, ledger.AccountType(req.Type), req.Balance)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, common.Fail(s.logger, "create account", err)
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// Update renames an account and optionally rebases its balance
func (s *AccountService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load account", err)
	}
	if err := account.Update(req.Name, ledger.AccountType(req.Type), req.Balance); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, common.Fail(s.logger, "update account", err)
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// Delete removes an account that has no transactions
func (s *AccountService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.accountRepo.FindByIDForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "load account", err)
	}
	count, err := s.accountRepo.CountEntries(ctx, actor.CompanyID, id)
	if err != nil {
		return common.Fail(s.logger, "count account transactions", err)
	}
	if count > 0 {
		return ledger.ErrAccountInUse
	}
	if err := s.accountRepo.DeleteForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "delete account", err)
	}
	return nil
}

// Get returns one account
func (s *AccountService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*AccountResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load account", err)
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// List returns the company's accounts
func (s *AccountService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) ([]AccountResponse, int64, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, 0, err
	}
	accounts, total, err := s.accountRepo.FindAllForTenant(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, common.Fail(s.logger, "list accounts", err)
	}
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out, total, nil
}
