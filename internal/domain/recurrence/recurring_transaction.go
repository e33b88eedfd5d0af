package recurrence

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType says which ledger entry a template produces
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is known
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Template carries the user-editable fields of a recurring transaction
type Template struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Frequency   Frequency
	StartDate   time.Time
	EndDate     *time.Time
	AccountID   uuid.UUID
	EmployeeID  *uuid.UUID
	CategoryID  *uuid.UUID
}

// RecurringTransaction materializes ledger entries on a cadence.
// NextRun is always derived from the previous NextRun, or from StartDate
// when the schedule is (re)created.
type RecurringTransaction struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Frequency   Frequency
	StartDate   time.Time
	EndDate     *time.Time
	AccountID   uuid.UUID
	EmployeeID  *uuid.UUID
	CategoryID  *uuid.UUID
	NextRun     time.Time
	IsActive    bool
	LastRunAt   *time.Time
}

// NewRecurringTransaction creates an active template whose first run is one
// period after the start date.
func NewRecurringTransaction(tenantID uuid.UUID, t Template) (*RecurringTransaction, error) {
	if err := validateTemplate(t); err != nil {
		return nil, err
	}
	next, err := Advance(t.StartDate, t.Frequency)
	if err != nil {
		return nil, err
	}
	rt := &RecurringTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
		NextRun:             next,
	}
	rt.assign(t)
	return rt, nil
}

// Update applies new template fields. NextRun is recomputed from the new
// start date only when the start date or frequency changed.
func (r *RecurringTransaction) Update(t Template) error {
	if err := validateTemplate(t); err != nil {
		return err
	}
	reschedule := !t.StartDate.Equal(r.StartDate) || t.Frequency != r.Frequency
	if reschedule {
		next, err := Advance(t.StartDate, t.Frequency)
		if err != nil {
			return err
		}
		r.NextRun = next
	}
	r.assign(t)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Toggle flips the active flag
func (r *RecurringTransaction) Toggle() {
	r.IsActive = !r.IsActive
	r.Touch()
	r.IncrementVersion()
}

// IsDue reports whether the template should materialize at now
func (r *RecurringTransaction) IsDue(now time.Time) bool {
	return r.IsActive && !r.NextRun.After(now)
}

// Expired reports whether the end date lies before now
func (r *RecurringTransaction) Expired(now time.Time) bool {
	return r.EndDate != nil && r.EndDate.Before(now)
}

// FollowingRun returns the run after the current NextRun
func (r *RecurringTransaction) FollowingRun() (time.Time, error) {
	return Advance(r.NextRun, r.Frequency)
}

// EntryDescription is the description given to materialized entries
func (r *RecurringTransaction) EntryDescription() string {
	if strings.TrimSpace(r.Description) != "" {
		return r.Description
	}
	return r.Name
}

// EntryInput builds the ledger input for one materialization dated at date
func (r *RecurringTransaction) EntryInput(date time.Time) ledger.EntryInput {
	id := r.ID
	return ledger.EntryInput{
		Amount:      r.Amount,
		Description: r.EntryDescription(),
		Date:        date,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		RecurringID: &id,
	}
}

// Materialize builds the ledger entry for one run. Exactly one of the
// returned values is non-nil.
func (r *RecurringTransaction) Materialize(date time.Time) (*ledger.Expenditure, *ledger.Income, error) {
	in := r.EntryInput(date)
	if r.Type == TransactionTypeExpense {
		e, err := ledger.NewExpenditure(r.TenantID, in, r.EmployeeID)
		return e, nil, err
	}
	i, err := ledger.NewIncome(r.TenantID, in)
	return nil, i, err
}

func (r *RecurringTransaction) assign(t Template) {
	r.Name = strings.TrimSpace(t.Name)
	r.Description = strings.TrimSpace(t.Description)
	r.Amount = t.Amount
	r.Type = t.Type
	r.Frequency = t.Frequency
	r.StartDate = t.StartDate
	r.EndDate = t.EndDate
	r.AccountID = t.AccountID
	r.EmployeeID = t.EmployeeID
	r.CategoryID = t.CategoryID
}

func validateTemplate(t Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if !t.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !t.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Type must be INCOME or EXPENSE")
	}
	if !t.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if t.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return shared.NewDomainError("INVALID_END_DATE", "End date cannot be before start date")
	}
	if t.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account is required")
	}
	return nil
}
