package workforce

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	shared.Filter
	Status       *EmployeeStatus
	EmployeeType *EmployeeType
}

// EmployeeRepository defines persistence for employees
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EmployeeFilter) ([]Employee, int64, error)
	// FindByEmailForTenant looks up an employee by normalized email within the tenant
	FindByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (*Employee, error)
	// FindFirstForTenant returns the oldest employee of the tenant
	FindFirstForTenant(ctx context.Context, tenantID uuid.UUID) (*Employee, error)
	Save(ctx context.Context, employee *Employee) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
