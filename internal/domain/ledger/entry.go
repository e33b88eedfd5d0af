package ledger

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryInput carries the fields shared by expenditures and incomes
type EntryInput struct {
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	TagIDs      []uuid.UUID
	// RecurringID links entries materialized from a recurring template
	RecurringID *uuid.UUID
}

// Entry is the common part of a ledger row
type Entry struct {
	shared.TenantAggregateRoot
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	TagIDs      []uuid.UUID
	RecurringID *uuid.UUID
}

func newEntry(tenantID uuid.UUID, in EntryInput) (Entry, error) {
	if tenantID == uuid.Nil {
		return Entry{}, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !in.Amount.IsPositive() {
		return Entry{}, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return Entry{}, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return Entry{}, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if in.Date.IsZero() {
		return Entry{}, shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	if in.AccountID == uuid.Nil {
		return Entry{}, shared.NewDomainError("INVALID_ACCOUNT", "Account is required")
	}
	return Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Amount:              in.Amount,
		Description:         description,
		Date:                in.Date,
		AccountID:           in.AccountID,
		CategoryID:          in.CategoryID,
		TagIDs:              dedupe(in.TagIDs),
		RecurringID:         in.RecurringID,
	}, nil
}

// Expenditure is money leaving an account
type Expenditure struct {
	Entry
	EmployeeID *uuid.UUID
}

// NewExpenditure creates an expenditure, optionally paid to an employee
func NewExpenditure(tenantID uuid.UUID, in EntryInput, employeeID *uuid.UUID) (*Expenditure, error) {
	entry, err := newEntry(tenantID, in)
	if err != nil {
		return nil, err
	}
	e := &Expenditure{Entry: entry, EmployeeID: employeeID}
	e.AddDomainEvent(NewExpenditureRecordedEvent(e))
	return e, nil
}

// BalanceDelta is the change this expenditure applies to its account
func (e *Expenditure) BalanceDelta() decimal.Decimal {
	return e.Amount.Neg()
}

// MarkDeleted records the deletion event
func (e *Expenditure) MarkDeleted() {
	e.AddDomainEvent(NewExpenditureDeletedEvent(e))
}

// Income is money entering an account
type Income struct {
	Entry
}

// NewIncome creates an income
func NewIncome(tenantID uuid.UUID, in EntryInput) (*Income, error) {
	entry, err := newEntry(tenantID, in)
	if err != nil {
		return nil, err
	}
	i := &Income{Entry: entry}
	i.AddDomainEvent(NewIncomeRecordedEvent(i))
	return i, nil
}

// BalanceDelta is the change this income applies to its account
func (i *Income) BalanceDelta() decimal.Decimal {
	return i.Amount
}

// MarkDeleted records the deletion event
func (i *Income) MarkDeleted() {
	i.AddDomainEvent(NewIncomeDeletedEvent(i))
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
