package identity

import (
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
)

// Company is the tenant root. Every other per-tenant record carries its id.
type Company struct {
	shared.BaseAggregateRoot
	Name string
}

// NewCompany creates a new company
func NewCompany(name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name must be at least 2 characters")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}
