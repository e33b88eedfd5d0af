package identity

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	// FindAllIDs lists every company id, used by cross-tenant jobs
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
}

// UserRepository defines persistence for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByMagicToken(ctx context.Context, token string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByTypeForTenant(ctx context.Context, tenantID uuid.UUID, userType UserType) ([]User, error)
}
