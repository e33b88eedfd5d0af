package ledger

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence for accounts
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, int64, error)
	Save(ctx context.Context, account *Account) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// AdjustBalance applies a signed delta with a single atomic UPDATE.
	// Returns shared.ErrNotFound when the account is not in the tenant.
	AdjustBalance(ctx context.Context, tenantID, id uuid.UUID, delta decimal.Decimal) error
	// CountEntries counts expenditures and incomes booked against the account
	CountEntries(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	// FindVisible returns a tenant-owned or system category
	FindVisible(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	// FindAllVisible lists tenant and system categories; a type filter also matches BOTH
	FindAllVisible(ctx context.Context, tenantID uuid.UUID, categoryType *CategoryType) ([]Category, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, category *Category) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TagRepository defines persistence for tags
type TagRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Tag, error)
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Tag, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Tag, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) (*Tag, error)
	Save(ctx context.Context, tag *Tag) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// EntryFilter narrows expenditure and income listings
type EntryFilter struct {
	shared.Filter
	From       *time.Time
	To         *time.Time
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	EmployeeID *uuid.UUID
	TagID      *uuid.UUID
}

// ExpenditureRepository defines persistence for expenditures
type ExpenditureRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expenditure, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]Expenditure, int64, error)
	// Create inserts the row and its tag links
	Create(ctx context.Context, e *Expenditure) error
	// DeleteForTenant removes the row and its tag links
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	UnlinkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error
	UnlinkEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error
}

// IncomeRepository defines persistence for incomes
type IncomeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Income, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]Income, int64, error)
	Create(ctx context.Context, i *Income) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	UnlinkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error
}
