package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for employees.
// An empty email is stored as NULL.
type EmployeeModel struct {
	TenantAggregateModel
	Name          string                   `gorm:"type:varchar(200);not null"`
	Email         *string                  `gorm:"type:varchar(200);index"`
	Phone         string                   `gorm:"type:varchar(50)"`
	Role          string                   `gorm:"type:varchar(100)"`
	Department    string                   `gorm:"type:varchar(100)"`
	GithubProfile string                   `gorm:"type:varchar(200)"`
	Salary        *decimal.Decimal         `gorm:"type:decimal(18,4)"`
	EmployeeType  workforce.EmployeeType   `gorm:"type:varchar(20);not null"`
	Status        workforce.EmployeeStatus `gorm:"type:varchar(20);not null;index"`
	HireDate      *time.Time
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *workforce.Employee {
	e := &workforce.Employee{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Role:                m.Role,
		Department:          m.Department,
		GithubProfile:       m.GithubProfile,
		Salary:              m.Salary,
		EmployeeType:        m.EmployeeType,
		Status:              m.Status,
		HireDate:            m.HireDate,
		Notes:               m.Notes,
	}
	if m.Email != nil {
		e.Email = *m.Email
	}
	return e
}

// FromDomain populates the persistence model from a domain Employee
func (m *EmployeeModel) FromDomain(e *workforce.Employee) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Name = e.Name
	m.Email = nil
	if e.Email != "" {
		email := e.Email
		m.Email = &email
	}
	m.Phone = e.Phone
	m.Role = e.Role
	m.Department = e.Department
	m.GithubProfile = e.GithubProfile
	m.Salary = e.Salary
	m.EmployeeType = e.EmployeeType
	m.Status = e.Status
	m.HireDate = e.HireDate
	m.Notes = e.Notes
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee
func EmployeeModelFromDomain(e *workforce.Employee) *EmployeeModel {
	m := &EmployeeModel{}
	m.FromDomain(e)
	return m
}
