package workforce

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmailInUse is returned when another employee of the company has the email
var ErrEmailInUse = shared.NewDomainError(shared.ErrAlreadyExists.Code, "An employee with this email already exists")

// EmployeeService manages employees. Staff may read; writes are ADMIN-only.
type EmployeeService struct {
	employees workforce.EmployeeRepository
	txScope   TransactionScope
	logger    *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employees workforce.EmployeeRepository, txScope TransactionScope, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		txScope:   txScope,
		logger:    common.Nop(logger),
	}
}

// Create adds an employee
func (s *EmployeeService) Create(ctx context.Context, actor identity.Actor, req EmployeeRequest) (*EmployeeResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	e, err := workforce.NewEmployee(actor.CompanyID, req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, actor.CompanyID, e.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.employees.Save(ctx, e); err != nil {
		return nil, common.Fail(s.logger, "create employee", err)
	}
	s.logger.Info("employee created",
		zap.String("tenant_id", actor.CompanyID.String()),
		zap.String("employee_id", e.ID.String()))
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Update replaces the employee's fields
func (s *EmployeeService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	e, err := s.load(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := e.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, actor.CompanyID, e.Email, e.ID); err != nil {
		return nil, err
	}
	if err := s.employees.Save(ctx, e); err != nil {
		return nil, common.Fail(s.logger, "update employee", err)
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Delete removes the employee. Their expenditures stay on the books without
// an employee, and they leave every task and project team, all in one
// transaction.
func (s *EmployeeService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if _, err := s.load(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ExpenditureRepo().UnlinkEmployee(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		if err := repos.TaskRepo().RemoveEmployee(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		if err := repos.MemberRepo().RemoveEmployee(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		return repos.EmployeeRepo().DeleteForTenant(ctx, actor.CompanyID, id)
	})
	if err != nil {
		return common.Fail(s.logger, "delete employee", err)
	}
	s.logger.Info("employee deleted",
		zap.String("tenant_id", actor.CompanyID.String()),
		zap.String("employee_id", id.String()))
	return nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EmployeeResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	e, err := s.load(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// List returns a page of employees
func (s *EmployeeService) List(ctx context.Context, actor identity.Actor, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, 0, err
	}
	rows, total, err := s.employees.FindAllForTenant(ctx, actor.CompanyID, filter.toDomain())
	if err != nil {
		return nil, 0, common.Fail(s.logger, "list employees", err)
	}
	out := make([]EmployeeResponse, len(rows))
	for i := range rows {
		out[i] = ToEmployeeResponse(&rows[i])
	}
	return out, total, nil
}

func (s *EmployeeService) load(ctx context.Context, tenantID, id uuid.UUID) (*workforce.Employee, error) {
	e, err := s.employees.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NotFound("Employee")
		}
		return nil, common.Fail(s.logger, "load employee", err)
	}
	return e, nil
}

// ensureEmailFree rejects an email already used by another employee
func (s *EmployeeService) ensureEmailFree(ctx context.Context, tenantID uuid.UUID, email string, self uuid.UUID) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	existing, err := s.employees.FindByEmailForTenant(ctx, tenantID, email)
	if err != nil {
		if common.IsNotFound(err) {
			return nil
		}
		return common.Fail(s.logger, "check employee email", err)
	}
	if existing.ID != self {
		return ErrEmailInUse
	}
	return nil
}
