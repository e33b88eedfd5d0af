package workforce

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeType describes the engagement of a person paid by the company
type EmployeeType string

const (
	EmployeeTypeEmployee   EmployeeType = "EMPLOYEE"
	EmployeeTypeContractor EmployeeType = "CONTRACTOR"
	EmployeeTypeVendor     EmployeeType = "VENDOR"
	EmployeeTypeFreelancer EmployeeType = "FREELANCER"
)

// IsValid checks if the employee type is known
func (t EmployeeType) IsValid() bool {
	switch t {
	case EmployeeTypeEmployee, EmployeeTypeContractor, EmployeeTypeVendor, EmployeeTypeFreelancer:
		return true
	}
	return false
}

// EmployeeStatus is the employment status
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive   EmployeeStatus = "INACTIVE"
	EmployeeStatusTerminated EmployeeStatus = "TERMINATED"
)

// IsValid checks if the status is known
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusTerminated:
		return true
	}
	return false
}

// Employee is a person the company pays or assigns work to
type Employee struct {
	shared.TenantAggregateRoot
	Name          string
	Email         string
	Phone         string
	Role          string
	Department    string
	GithubProfile string
	Salary        *decimal.Decimal
	EmployeeType  EmployeeType
	Status        EmployeeStatus
	HireDate      *time.Time
	Notes         string
}

// EmployeeDetails carries the mutable fields of an employee
type EmployeeDetails struct {
	Name          string
	Email         string
	Phone         string
	Role          string
	Department    string
	GithubProfile string
	Salary        *decimal.Decimal
	EmployeeType  EmployeeType
	Status        EmployeeStatus
	HireDate      *time.Time
	Notes         string
}

// NewEmployee creates a new employee record
func NewEmployee(tenantID uuid.UUID, details EmployeeDetails) (*Employee, error) {
	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
	}
	if err := e.apply(details); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the mutable fields
func (e *Employee) Update(details EmployeeDetails) error {
	if err := e.apply(details); err != nil {
		return err
	}
	e.Touch()
	e.IncrementVersion()
	return nil
}

func (e *Employee) apply(d EmployeeDetails) error {
	name := strings.TrimSpace(d.Name)
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	email := ""
	if strings.TrimSpace(d.Email) != "" {
		normalized, err := identity.NormalizeEmail(d.Email)
		if err != nil {
			return err
		}
		email = normalized
	}
	if d.Salary != nil && d.Salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary must be positive")
	}
	employeeType := d.EmployeeType
	if employeeType == "" {
		employeeType = EmployeeTypeEmployee
	}
	if !employeeType.IsValid() {
		return shared.NewDomainError("INVALID_EMPLOYEE_TYPE", "Employee type is not valid")
	}
	status := d.Status
	if status == "" {
		status = EmployeeStatusActive
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Employee status is not valid")
	}

	e.Name = name
	e.Email = email
	e.Phone = strings.TrimSpace(d.Phone)
	e.Role = strings.TrimSpace(d.Role)
	e.Department = strings.TrimSpace(d.Department)
	e.GithubProfile = strings.TrimSpace(d.GithubProfile)
	e.Salary = d.Salary
	e.EmployeeType = employeeType
	e.Status = status
	e.HireDate = d.HireDate
	e.Notes = d.Notes
	return nil
}

// IsActive returns true for active employees
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// HasEmail returns true when the employee can receive notifications
func (e *Employee) HasEmail() bool {
	return e.Email != ""
}
