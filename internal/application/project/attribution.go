package project

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

// ErrNoAttribution is returned when no employee of the tenant can be credited
// with a log entry
var ErrNoAttribution = shared.NewDomainError("NO_ATTRIBUTION", "No employee found to attribute this activity to")

// Attributor picks the employee a daily log is credited to. Lookups never
// leave the actor's company.
//
//  1. the employee linked to the session
//  2. the employee whose email matches the session email
//  3. the company's first employee, unless strict
type Attributor struct {
	employees workforce.EmployeeRepository
	strict    bool
}

// NewAttributor creates an Attributor. With strict set the first-employee
// fallback is disabled.
func NewAttributor(employees workforce.EmployeeRepository, strict bool) *Attributor {
	return &Attributor{employees: employees, strict: strict}
}

// Resolve returns the employee id to credit for the actor's activity
func (a *Attributor) Resolve(ctx context.Context, actor identity.Actor) (uuid.UUID, error) {
	if actor.EmployeeID != nil {
		emp, err := a.employees.FindByIDForTenant(ctx, actor.CompanyID, *actor.EmployeeID)
		if err == nil {
			return emp.ID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, err
		}
	}
	if actor.Email != "" {
		emp, err := a.employees.FindByEmailForTenant(ctx, actor.CompanyID, actor.Email)
		if err == nil {
			return emp.ID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, err
		}
	}
	if a.strict {
		return uuid.Nil, ErrNoAttribution
	}
	emp, err := a.employees.FindFirstForTenant(ctx, actor.CompanyID)
	if errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, ErrNoAttribution
	}
	if err != nil {
		return uuid.Nil, err
	}
	return emp.ID, nil
}
