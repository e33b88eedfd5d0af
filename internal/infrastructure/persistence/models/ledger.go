package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate
type AccountModel struct {
	TenantAggregateModel
	Name           string             `gorm:"type:varchar(200);not null"`
	Type           ledger.AccountType `gorm:"type:varchar(30);not null"`
	Balance        decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	InitialBalance decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		Balance:             m.Balance,
		InitialBalance:      m.InitialBalance,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Name = a.Name
	m.Type = a.Type
	m.Balance = a.Balance
	m.InitialBalance = a.InitialBalance
}

// AccountModelFromDomain creates a persistence model from a domain Account
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// CategoryModel is the persistence model for categories.
// System rows have no tenant.
type CategoryModel struct {
	AggregateModel
	TenantID *uuid.UUID          `gorm:"type:uuid;index"`
	Name     string              `gorm:"type:varchar(100);not null"`
	Icon     string              `gorm:"type:varchar(50)"`
	Color    string              `gorm:"type:varchar(20)"`
	Type     ledger.CategoryType `gorm:"type:varchar(10);not null"`
	IsSystem bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *ledger.Category {
	return &ledger.Category{
		BaseAggregateRoot: m.ToAggregateRoot(),
		TenantID:          m.TenantID,
		Name:              m.Name,
		Icon:              m.Icon,
		Color:             m.Color,
		Type:              m.Type,
		IsSystem:          m.IsSystem,
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *ledger.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.TenantID = c.TenantID
	m.Name = c.Name
	m.Icon = c.Icon
	m.Color = c.Color
	m.Type = c.Type
	m.IsSystem = c.IsSystem
}

// CategoryModelFromDomain creates a persistence model from a domain Category
func CategoryModelFromDomain(c *ledger.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// TagModel is the persistence model for tags
type TagModel struct {
	TenantAggregateModel
	Name      string     `gorm:"type:varchar(200);not null"`
	ProjectID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag
func (m *TagModel) ToDomain() *ledger.Tag {
	return &ledger.Tag{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		ProjectID:           m.ProjectID,
	}
}

// FromDomain populates the persistence model from a domain Tag
func (m *TagModel) FromDomain(t *ledger.Tag) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.ProjectID = t.ProjectID
}

// TagModelFromDomain creates a persistence model from a domain Tag
func TagModelFromDomain(t *ledger.Tag) *TagModel {
	m := &TagModel{}
	m.FromDomain(t)
	return m
}

// EntryModel holds the columns shared by expenditures and incomes
type EntryModel struct {
	TenantAggregateModel
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:text"`
	Date        time.Time       `gorm:"not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	RecurringID *uuid.UUID      `gorm:"type:uuid;index"`
}

func (m *EntryModel) toDomain(tagIDs []uuid.UUID) ledger.Entry {
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return ledger.Entry{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Amount:              m.Amount,
		Description:         m.Description,
		Date:                m.Date,
		AccountID:           m.AccountID,
		CategoryID:          m.CategoryID,
		TagIDs:              tagIDs,
		RecurringID:         m.RecurringID,
	}
}

func (m *EntryModel) fromDomain(e ledger.Entry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Amount = e.Amount
	m.Description = e.Description
	m.Date = e.Date
	m.AccountID = e.AccountID
	m.CategoryID = e.CategoryID
	m.RecurringID = e.RecurringID
}

// ExpenditureModel is the persistence model for expenditures
type ExpenditureModel struct {
	EntryModel
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ExpenditureModel) TableName() string {
	return "expenditures"
}

// ToDomain converts the persistence model to a domain Expenditure.
// Tag ids are loaded separately by the repository.
func (m *ExpenditureModel) ToDomain(tagIDs []uuid.UUID) *ledger.Expenditure {
	return &ledger.Expenditure{
		Entry:      m.EntryModel.toDomain(tagIDs),
		EmployeeID: m.EmployeeID,
	}
}

// ExpenditureModelFromDomain creates a persistence model from a domain Expenditure
func ExpenditureModelFromDomain(e *ledger.Expenditure) *ExpenditureModel {
	m := &ExpenditureModel{EmployeeID: e.EmployeeID}
	m.fromDomain(e.Entry)
	return m
}

// IncomeModel is the persistence model for incomes
type IncomeModel struct {
	EntryModel
}

// TableName returns the table name for GORM
func (IncomeModel) TableName() string {
	return "incomes"
}

// ToDomain converts the persistence model to a domain Income
func (m *IncomeModel) ToDomain(tagIDs []uuid.UUID) *ledger.Income {
	return &ledger.Income{Entry: m.EntryModel.toDomain(tagIDs)}
}

// IncomeModelFromDomain creates a persistence model from a domain Income
func IncomeModelFromDomain(i *ledger.Income) *IncomeModel {
	m := &IncomeModel{}
	m.fromDomain(i.Entry)
	return m
}

// ExpenditureTagModel links an expenditure to a tag
type ExpenditureTagModel struct {
	ExpenditureID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID         uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (ExpenditureTagModel) TableName() string {
	return "expenditure_tags"
}

// IncomeTagModel links an income to a tag
type IncomeTagModel struct {
	IncomeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (IncomeTagModel) TableName() string {
	return "income_tags"
}
