package recurrence

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages recurring transaction templates
type Service struct {
	repo         recurrence.Repository
	accountRepo  ledger.AccountRepository
	categoryRepo ledger.CategoryRepository
	employeeRepo workforce.EmployeeRepository
	logger       *zap.Logger
}

// NewService creates a new Service
func NewService(
	repo recurrence.Repository,
	accountRepo ledger.AccountRepository,
	categoryRepo ledger.CategoryRepository,
	employeeRepo workforce.EmployeeRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:         repo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		employeeRepo: employeeRepo,
		logger:       common.Nop(logger),
	}
}

// Create adds an active template whose first run is one period after its start
func (s *Service) Create(ctx context.Context, actor identity.Actor, req TemplateRequest) (*TemplateResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rt, err := recurrence.NewRecurringTransaction(actor.CompanyID, req.toTemplate())
	if err != nil {
		return nil, err
	}
	if err := s.verifyReferences(ctx, actor.CompanyID, req); err != nil {
		return nil, common.Fail(s.logger, "verify recurring references", err)
	}
	if err := s.repo.Save(ctx, rt); err != nil {
		return nil, common.Fail(s.logger, "create recurring transaction", err)
	}
	resp := ToTemplateResponse(rt)
	return &resp, nil
}

// Update edits a template. The next run is recomputed only when the start
// date or frequency changed.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rt, err := s.repo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load recurring transaction", err)
	}
	if err := rt.Update(req.toTemplate()); err != nil {
		return nil, err
	}
	if err := s.verifyReferences(ctx, actor.CompanyID, req); err != nil {
		return nil, common.Fail(s.logger, "verify recurring references", err)
	}
	if err := s.repo.SaveWithLock(ctx, rt); err != nil {
		return nil, common.Fail(s.logger, "update recurring transaction", err)
	}
	resp := ToTemplateResponse(rt)
	return &resp, nil
}

// Toggle flips the active flag
func (s *Service) Toggle(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TemplateResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rt, err := s.repo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load recurring transaction", err)
	}
	rt.Toggle()
	if err := s.repo.SaveWithLock(ctx, rt); err != nil {
		return nil, common.Fail(s.logger, "toggle recurring transaction", err)
	}
	resp := ToTemplateResponse(rt)
	return &resp, nil
}

// Delete removes a template. Entries it produced stay in the ledger.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.repo.FindByIDForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "load recurring transaction", err)
	}
	return common.Fail(s.logger, "delete recurring transaction", s.repo.DeleteForTenant(ctx, actor.CompanyID, id))
}

// Get returns one template
func (s *Service) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TemplateResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rt, err := s.repo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load recurring transaction", err)
	}
	resp := ToTemplateResponse(rt)
	return &resp, nil
}

// List returns the company's templates ordered by next run
func (s *Service) List(ctx context.Context, actor identity.Actor) ([]TemplateResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindAllForTenant(ctx, actor.CompanyID)
	if err != nil {
		return nil, common.Fail(s.logger, "list recurring transactions", err)
	}
	out := make([]TemplateResponse, len(rows))
	for i := range rows {
		out[i] = ToTemplateResponse(&rows[i])
	}
	return out, nil
}

func (s *Service) verifyReferences(ctx context.Context, tenantID uuid.UUID, req TemplateRequest) error {
	if _, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, req.AccountID); err != nil {
		return notFoundAs(err, "Account")
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindVisible(ctx, tenantID, *req.CategoryID); err != nil {
			return notFoundAs(err, "Category")
		}
	}
	if req.EmployeeID != nil {
		if _, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, *req.EmployeeID); err != nil {
			return notFoundAs(err, "Employee")
		}
	}
	return nil
}

func notFoundAs(err error, resource string) error {
	if common.IsNotFound(err) {
		return common.NotFound(resource)
	}
	return err
}
