package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyModel is the persistence model for the Company aggregate
type CompanyModel struct {
	AggregateModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
	}
}

// FromDomain populates the persistence model from a domain Company
func (m *CompanyModel) FromDomain(c *identity.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
}

// CompanyModelFromDomain creates a persistence model from a domain Company
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// UserModel is the persistence model for the User aggregate.
// The tenant of a user is stored as company_id.
type UserModel struct {
	AggregateModel
	CompanyID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name             string            `gorm:"type:varchar(200);not null"`
	Email            string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash     string            `gorm:"type:varchar(255);not null"`
	UserType         identity.UserType `gorm:"type:varchar(20);not null"`
	EmployeeID       *uuid.UUID        `gorm:"type:uuid;index"`
	MagicToken       *string           `gorm:"type:varchar(128);uniqueIndex"`
	MagicTokenExpiry *time.Time
	LastLoginAt      *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: m.ToAggregateRoot(),
			TenantID:          m.CompanyID,
		},
		Name:             m.Name,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		UserType:         m.UserType,
		EmployeeID:       m.EmployeeID,
		MagicTokenExpiry: m.MagicTokenExpiry,
		LastLoginAt:      m.LastLoginAt,
	}
	if m.MagicToken != nil {
		u.MagicToken = *m.MagicToken
	}
	return u
}

// FromDomain populates the persistence model from a domain User.
// An empty magic token is stored as NULL so the unique index ignores it.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.CompanyID = u.TenantID
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.UserType = u.UserType
	m.EmployeeID = u.EmployeeID
	m.MagicToken = nil
	if u.MagicToken != "" {
		token := u.MagicToken
		m.MagicToken = &token
	}
	m.MagicTokenExpiry = u.MagicTokenExpiry
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
