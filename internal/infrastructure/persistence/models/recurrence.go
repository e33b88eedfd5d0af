package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringTransactionModel is the persistence model for recurring templates
type RecurringTransactionModel struct {
	TenantAggregateModel
	Name        string                     `gorm:"type:varchar(200);not null"`
	Description string                     `gorm:"type:text"`
	Amount      decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Type        recurrence.TransactionType `gorm:"type:varchar(10);not null"`
	Frequency   recurrence.Frequency       `gorm:"type:varchar(20);not null"`
	StartDate   time.Time                  `gorm:"not null"`
	EndDate     *time.Time
	AccountID   uuid.UUID  `gorm:"type:uuid;not null"`
	EmployeeID  *uuid.UUID `gorm:"type:uuid"`
	CategoryID  *uuid.UUID `gorm:"type:uuid"`
	NextRun     time.Time  `gorm:"not null;index"`
	IsActive    bool       `gorm:"not null;index"`
	LastRunAt   *time.Time
}

// TableName returns the table name for GORM
func (RecurringTransactionModel) TableName() string {
	return "recurring_transactions"
}

// ToDomain converts the persistence model to a domain RecurringTransaction
func (m *RecurringTransactionModel) ToDomain() *recurrence.RecurringTransaction {
	return &recurrence.RecurringTransaction{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Amount:              m.Amount,
		Type:                m.Type,
		Frequency:           m.Frequency,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		AccountID:           m.AccountID,
		EmployeeID:          m.EmployeeID,
		CategoryID:          m.CategoryID,
		NextRun:             m.NextRun,
		IsActive:            m.IsActive,
		LastRunAt:           m.LastRunAt,
	}
}

// FromDomain populates the persistence model from a domain RecurringTransaction
func (m *RecurringTransactionModel) FromDomain(rt *recurrence.RecurringTransaction) {
	m.FromDomainTenantAggregateRoot(rt.TenantAggregateRoot)
	m.Name = rt.Name
	m.Description = rt.Description
	m.Amount = rt.Amount
	m.Type = rt.Type
	m.Frequency = rt.Frequency
	m.StartDate = rt.StartDate
	m.EndDate = rt.EndDate
	m.AccountID = rt.AccountID
	m.EmployeeID = rt.EmployeeID
	m.CategoryID = rt.CategoryID
	m.NextRun = rt.NextRun
	m.IsActive = rt.IsActive
	m.LastRunAt = rt.LastRunAt
}

// RecurringTransactionModelFromDomain creates a persistence model from a domain RecurringTransaction
func RecurringTransactionModelFromDomain(rt *recurrence.RecurringTransaction) *RecurringTransactionModel {
	m := &RecurringTransactionModel{}
	m.FromDomain(rt)
	return m
}
