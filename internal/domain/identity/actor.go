package identity

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the authenticated principal behind a request
type Actor struct {
	UserID     uuid.UUID
	CompanyID  uuid.UUID
	UserType   UserType
	EmployeeID *uuid.UUID
	Email      string
	Name       string
}

// RequireTenant fails with ErrUnauthorized when the actor has no company
func (a Actor) RequireTenant() error {
	if a.CompanyID == uuid.Nil || a.UserID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	return nil
}

// RequireAdmin fails unless the actor is a company administrator
func (a Actor) RequireAdmin() error {
	if err := a.RequireTenant(); err != nil {
		return err
	}
	if a.UserType != UserTypeAdmin {
		return shared.ErrUnauthorized
	}
	return nil
}

// RequireStaff fails for client logins, which only reach the client portal
func (a Actor) RequireStaff() error {
	if err := a.RequireTenant(); err != nil {
		return err
	}
	if a.UserType == UserTypeClient {
		return shared.ErrUnauthorized
	}
	return nil
}

// IsAdmin reports whether the actor administers the company
func (a Actor) IsAdmin() bool {
	return a.UserType == UserTypeAdmin
}

// DisplayName returns the actor's name or a fallback
func (a Actor) DisplayName(fallback string) string {
	if a.Name != "" {
		return a.Name
	}
	return fallback
}
